package natives

import (
	"fmt"

	"github.com/lumenlang/lumen/internal/vm"
)

// nativeSpec pairs a NativeFn with its declared arity, matching what
// vm.NewNative needs to wrap a Go function as a callable Value.
type nativeSpec struct {
	arity int
	fn    vm.NativeFn
}

// moduleEntry mirrors spec.md §6's `NativeModuleEntry{name, fns[]}`
// plus the per-module optional callback invoked after the function
// table is built, to install constants such as math.pi.
type moduleEntry struct {
	name     string
	fns      map[string]nativeSpec
	callback func(m *vm.VM, table *vm.TableHandle)
}

// registry holds every module entry, keyed by name, populated by each
// domain file's init() (math.go, system.go, ...), mirroring the
// teacher's InitVirtualPackages/RegisterVirtualPackage registration
// idiom in internal/modules.
var registry = map[string]*moduleEntry{}

func register(e *moduleEntry) {
	registry[e.name] = e
}

// nativeModule implements the `module(name)` builtin (spec §6): it
// looks up the named entry, builds a Table of its functions, and runs
// the entry's callback (if any) to install constants afterward.
func nativeModule(m *vm.VM, args []vm.Value) (vm.Value, error) {
	if !args[0].IsString() {
		return vm.Value{}, fmt.Errorf("module: argument must be a string, got %s", args[0].TypeName())
	}
	name := args[0].AsString().Chars
	entry, ok := registry[name]
	if !ok {
		return vm.Value{}, fmt.Errorf("module: unknown module '%s'", name)
	}
	table := m.NewTable()
	for fnName, spec := range entry.fns {
		table.Set(fnName, m.NewNative(name+"."+fnName, spec.arity, spec.fn))
	}
	if entry.callback != nil {
		entry.callback(m, table)
	}
	return table.Value(), nil
}
