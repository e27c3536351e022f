// Package debugtui implements an interactive, terminal-based step debugger
// for an ops program: it drives a *ops.VM one opcode at a time and renders
// the instruction buffer, operand stack and symbol table between steps.
package debugtui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oplang/ops/pkg/ops"
)

// Debugger wraps a VM with breakpoint tracking and command dispatch, the
// same split of concerns as a register/memory debugger: the VM owns
// execution state, the Debugger owns the operator-facing controls around it.
type Debugger struct {
	VM   *ops.VM
	Code []ops.Instruction

	Breakpoints map[int]bool
	Running     bool

	LastCommand string
	Output      strings.Builder
}

// New creates a Debugger over vm, ready to step through code.
func New(vm *ops.VM, code []ops.Instruction) *Debugger {
	return &Debugger{
		VM:          vm,
		Code:        code,
		Breakpoints: make(map[int]bool),
	}
}

// GetOutput drains and returns the debugger's command output buffer.
func (d *Debugger) GetOutput() string {
	s := d.Output.String()
	d.Output.Reset()
	return s
}

// ExecuteCommand parses and runs a single command line, writing any
// human-readable result to d.Output. An empty line repeats the last command,
// mirroring a REPL's empty-input-means-continue convention.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.LastCommand = line
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "step", "s":
		return d.step()
	case "continue", "c":
		return d.continueRun()
	case "break", "b":
		return d.setBreak(fields[1:])
	case "print", "p":
		return d.printVar(fields[1:])
	case "help", "h":
		d.Output.WriteString("commands: step|s, continue|c, break|b <pc>, print|p <name>, quit|q\n")
		return nil
	case "quit", "q":
		d.Running = false
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (d *Debugger) step() error {
	if d.VM.Done() {
		d.Output.WriteString("program has halted\n")
		return nil
	}
	if err := d.VM.StepOnce(); err != nil {
		return err
	}
	return nil
}

// continueRun steps until a breakpoint, a fault, or the end of the buffer.
func (d *Debugger) continueRun() error {
	for !d.VM.Done() {
		if d.Breakpoints[d.VM.PC()] {
			d.Output.WriteString(fmt.Sprintf("stopped at breakpoint %d\n", d.VM.PC()))
			return nil
		}
		if err := d.VM.StepOnce(); err != nil {
			return err
		}
	}
	d.Output.WriteString("program halted\n")
	return nil
}

func (d *Debugger) setBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <instruction index>")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid instruction index %q", args[0])
	}
	d.Breakpoints[idx] = true
	d.Output.WriteString(fmt.Sprintf("breakpoint set at %d\n", idx))
	return nil
}

func (d *Debugger) printVar(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: print <name>")
	}
	val, ok := d.VM.Symbols()[args[0]]
	if !ok {
		return fmt.Errorf("undefined variable %q", args[0])
	}
	d.Output.WriteString(fmt.Sprintf("%s = %s\n", args[0], val.String()))
	return nil
}
