package debugtui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oplang/ops/pkg/ops"
)

func newDebugger(t *testing.T, src string) *Debugger {
	t.Helper()
	p := ops.NewParser(ops.NewLexer(strings.NewReader(src)))
	code, err := p.Parse()
	assert.NoError(t, err)

	vm := ops.NewVM(code)
	return New(vm, code)
}

func TestDebuggerStep(t *testing.T) {
	d := newDebugger(t, "x = 1; x = x + 1;")

	assert.NoError(t, d.ExecuteCommand("step"))
	assert.NoError(t, d.ExecuteCommand("step"))
	assert.False(t, d.VM.Done())
}

func TestDebuggerBreakpointStopsContinue(t *testing.T) {
	d := newDebugger(t, "x = 1; x = 2; x = 3;")

	assert.NoError(t, d.ExecuteCommand("break 4"))
	assert.NoError(t, d.ExecuteCommand("continue"))

	assert.Equal(t, 4, d.VM.PC())
	assert.False(t, d.VM.Done())
	assert.Contains(t, d.GetOutput(), "breakpoint set at 4")
}

func TestDebuggerContinueToHalt(t *testing.T) {
	d := newDebugger(t, "x = 1;")

	assert.NoError(t, d.ExecuteCommand("continue"))
	assert.True(t, d.VM.Done())
	assert.Contains(t, d.GetOutput(), "halted")
}

func TestDebuggerPrintVariable(t *testing.T) {
	d := newDebugger(t, "x = 41;")
	assert.NoError(t, d.ExecuteCommand("continue"))

	assert.NoError(t, d.ExecuteCommand("print x"))
	assert.Contains(t, d.GetOutput(), "x = 41")
}

func TestDebuggerPrintUndefinedVariableFails(t *testing.T) {
	d := newDebugger(t, "x = 1;")
	err := d.ExecuteCommand("print nope")
	assert.Error(t, err)
}

func TestDebuggerRepeatsLastCommandOnEmptyInput(t *testing.T) {
	d := newDebugger(t, "x = 1; x = 2;")

	assert.NoError(t, d.ExecuteCommand("step"))
	pcAfterFirst := d.VM.PC()

	assert.NoError(t, d.ExecuteCommand(""))
	assert.Greater(t, d.VM.PC(), pcAfterFirst)
}

func TestDebuggerUnknownCommandFails(t *testing.T) {
	d := newDebugger(t, "x = 1;")
	err := d.ExecuteCommand("frobnicate")
	assert.Error(t, err)
}
