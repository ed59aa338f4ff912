// Command lumen is the Lumen language driver: it runs a source file or,
// with no arguments, a REPL, grounded on the teacher's cmd/funxy driver
// conventions (reading os.Args, printing runtime errors to stderr,
// mapping them to process exit codes) but scoped down to spec.md §6's
// much smaller external-interface contract.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lumenlang/lumen/internal/config"
	"github.com/lumenlang/lumen/internal/natives"
	"github.com/lumenlang/lumen/internal/vm"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [path%s]\n", os.Args[0], config.SourceFileExt)
		os.Exit(64)
	}
	if len(os.Args) == 2 {
		os.Exit(runFile(os.Args[1]))
	}
	runRepl()
}

func newInterpreter() *vm.VM {
	m := vm.New()
	natives.Install(m)
	return m
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return config.ExitRuntimeError
	}
	m := newInterpreter()
	compileErr, runtimeErr := m.Interpret(string(source))
	if compileErr != nil {
		return config.ExitCompileError
	}
	if runtimeErr != nil {
		return config.ExitRuntimeError
	}
	return config.ExitOK
}

// runRepl reads one line at a time, compiling and running each as its
// own top-level script against a shared VM so globals and classes
// persist across lines (spec §6 "Surface language").
func runRepl() {
	m := newInterpreter()
	fmt.Printf("Lumen %s\n", config.Version)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		m.Interpret(line)
	}
}
