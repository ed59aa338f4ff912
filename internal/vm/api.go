package vm

// This file exposes the narrow surface `internal/natives` needs to
// build native-function tables without reaching into VM internals
// directly, mirroring the teacher's own native/evaluator split (spec
// §6 "Native API").

// NewNative wraps fn as a callable Value, tracked on the heap like any
// other allocation.
func (vm *VM) NewNative(name string, arity int, fn NativeFn) Value {
	return ObjVal(vm.newNative(name, arity, fn))
}

// NewTable allocates an empty Table value.
func (vm *VM) NewTable() *TableHandle {
	return &TableHandle{vm: vm, t: vm.newTable()}
}

// NewArray allocates an Array value from values.
func (vm *VM) NewArray(values []Value) Value {
	return ObjVal(vm.newArray(values))
}

// InternString returns the unique Value wrapping the interned string s.
func (vm *VM) InternString(s string) Value {
	return ObjVal(vm.internString(s))
}

// TableHandle lets native registration code build up a Table's entries
// without natives needing to know about swiss.Map directly.
type TableHandle struct {
	vm *VM
	t  *Table
}

func (h *TableHandle) Set(key string, v Value) {
	h.t.Entries.Put(h.vm.InternString(key), v)
}

func (h *TableHandle) Value() Value { return ObjVal(h.t) }

// ---- type predicates for external callers (natives) ----------------------------------------------------------
//
// objType itself stays unexported (it is pure VM-internal bookkeeping),
// so natives.go checks argument shapes through these instead.

func (v Value) IsString() bool { return v.IsObjType(tString) }
func (v Value) IsArray() bool  { return v.IsObjType(tArray) }
func (v Value) IsTable() bool  { return v.IsObjType(tTable) }

