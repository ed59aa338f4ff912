// Package natives registers Lumen's global builtin functions and its
// library module table, grounded on the teacher's
// internal/evaluator/builtins_*.go split (one file per concern) and its
// internal/modules virtual-package registry, adapted from a statically
// typed module system to spec.md §6's plain NativeModuleEntry{name,
// fns[]} shape.
package natives

import (
	"fmt"

	"github.com/lumenlang/lumen/internal/vm"
)

// Install registers the global functions spec.md §6 names directly
// into m's globals table: print, sprint, println, len, module.
func Install(m *vm.VM) {
	m.SetGlobal("print", m.NewNative("print", -1, nativePrint))
	m.SetGlobal("sprint", m.NewNative("sprint", -1, nativeSprint))
	m.SetGlobal("println", m.NewNative("println", -1, nativePrintln))
	m.SetGlobal("len", m.NewNative("len", 1, nativeLen))
	m.SetGlobal("module", m.NewNative("module", 1, nativeModule))
}

func nativePrint(m *vm.VM, args []vm.Value) (vm.Value, error) {
	for _, a := range args {
		fmt.Fprint(m.Out, a.Inspect())
	}
	return vm.Nil(), nil
}

func nativePrintln(m *vm.VM, args []vm.Value) (vm.Value, error) {
	if _, err := nativePrint(m, args); err != nil {
		return vm.Value{}, err
	}
	fmt.Fprintln(m.Out)
	return vm.Nil(), nil
}

func nativeSprint(m *vm.VM, args []vm.Value) (vm.Value, error) {
	var s string
	for _, a := range args {
		s += a.Inspect()
	}
	return m.InternString(s), nil
}

// nativeLen implements len(v) for strings, arrays and tables (spec §6).
func nativeLen(m *vm.VM, args []vm.Value) (vm.Value, error) {
	v := args[0]
	switch {
	case v.IsString():
		return vm.Number(float64(len(v.AsString().Chars))), nil
	case v.IsArray():
		return vm.Number(float64(len(v.AsArray().Values))), nil
	case v.IsTable():
		return vm.Number(float64(v.AsTable().Entries.Count())), nil
	}
	return vm.Value{}, fmt.Errorf("len: argument must be a string, array, or table, got %s", v.TypeName())
}
