// Command ops compiles and runs a single ops source file: lex, parse and
// emit the postfix instruction stream, then either execute it on the
// stack VM (the default), lower it to LLVM IR, or build a native binary
// from that IR.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/oplang/ops/internal/debugtui"
	"github.com/oplang/ops/pkg/ops"
)

func main() {
	os.Exit(run())
}

func run() int {
	debug := flag.Bool("debug", false, "Launch the interactive step debugger instead of running to completion.")
	emitLLVM := flag.Bool("emit-llvm", false, "Print the program's LLVM IR instead of executing it.")
	compile := flag.String("compile", "", "Build a native binary at this path via clang, instead of executing on the VM.")
	runAfterCompile := flag.Bool("run", false, "With -compile, also execute the produced binary once built.")
	configPath := flag.String("config", "config.toml", "Path to an optional config.toml.")
	flag.Parse()

	var src *os.File
	switch flag.NArg() {
	case 0:
		src = os.Stdin
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ops: %s\n", err)
			return 1
		}
		defer f.Close()
		src = f
	default:
		fmt.Fprintln(os.Stderr, "Usage: ops [flags] [source-file]")
		return 1
	}

	cfg, err := ops.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ops: %s\n", err)
		return 1
	}

	lex := ops.NewLexer(src)
	parser := ops.NewParser(lex)

	code, err := parser.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case *emitLLVM:
		mod, err := ops.Lower(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(mod.String())
		return 0

	case *compile != "":
		mod, err := ops.Lower(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := ops.Build(mod, ops.HostTarget(), *compile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !*runAfterCompile {
			return 0
		}

		bin := exec.Command(*compile)
		bin.Stdin, bin.Stdout, bin.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := bin.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case *debug:
		vm := ops.NewVM(code,
			ops.WithStdin(os.Stdin),
			ops.WithStdout(os.Stdout),
			ops.WithReadPrompt(cfg.IO.ReadPrompt),
			ops.WithFloatFormat(cfg.Display.FloatFormat),
		)
		return debugtui.Run(vm, code)

	default:
		vm := ops.NewVM(code,
			ops.WithStdin(os.Stdin),
			ops.WithStdout(os.Stdout),
			ops.WithReadPrompt(cfg.IO.ReadPrompt),
			ops.WithFloatFormat(cfg.Display.FloatFormat),
		)
		if err := vm.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
}
