// Package vm implements Lumen's bytecode compiler, object heap, garbage
// collector and virtual machine. These three subsystems are kept in one
// package, mirroring how the teacher codebase keeps its chunk, compiler
// and VM together: they share the Value/Object representation too
// tightly to benefit from a package boundary.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/dolthub/swiss"
)

// MaxStack bounds the operand stack (spec §3 "fixed maximum depth").
const MaxStack = 1 << 16

// MaxFrames bounds call-frame recursion depth (spec §3 example: 64).
const MaxFrames = 256

// CallFrame is one in-progress call: the closure being executed, its
// instruction pointer, and the base slot of its locals on the value
// stack (spec §3).
type CallFrame struct {
	closure *Closure
	ip      int
	base    int
}

// dunderNames caches the interned operator-overload method names so
// dispatch never re-interns a string per binary operation (spec §3).
type dunderNames struct {
	initName                      *String
	add, sub, mul, div, mod       *String
	and, or, xor                  *String
	gt, lt, eq, not               *String
}

// VM is the register-free stack machine that executes compiled chunks.
type VM struct {
	stack [MaxStack]Value
	sp    int

	frames     [MaxFrames]CallFrame
	frameCount int

	globals *swiss.Map[string, Value]

	openUpvalues *Upvalue

	// GC bookkeeping (spec §3, §4.4).
	allObjects     Object
	bytesAllocated int64
	nextGC         int64
	grayStack      []Object
	interned       map[string]*String

	names dunderNames

	// compilingFuncs roots the chain of functions the compiler is
	// currently building, so the top-level script or a nested function
	// literal mid-compilation survives a GC triggered by a constant
	// allocation (spec §9 "GC
	// trigger points").
	compilingFuncs []*Function

	Out   io.Writer
	Debug bool
}

// New constructs a VM with an empty globals table and the dunder/init
// names pre-interned.
func New() *VM {
	vm := &VM{
		globals:  swiss.NewMap[string, Value](64),
		interned: make(map[string]*String, 64),
		nextGC:   1 << 20,
		Out:      os.Stdout,
	}
	vm.names = dunderNames{
		initName: vm.internString("init"),
		add:      vm.internString("__add"),
		sub:      vm.internString("__sub"),
		mul:      vm.internString("__mul"),
		div:      vm.internString("__div"),
		mod:      vm.internString("__mod"),
		and:      vm.internString("__and"),
		or:       vm.internString("__or"),
		xor:      vm.internString("__xor"),
		gt:       vm.internString("__gt"),
		lt:       vm.internString("__lt"),
		eq:       vm.internString("__eq"),
		not:      vm.internString("__not"),
	}
	return vm
}

// ---- stack primitives ----------------------------------------------------------

func (vm *VM) push(v Value) error {
	if vm.sp >= MaxStack {
		return fmt.Errorf("stack overflow")
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() Value {
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = Value{}
	return v
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) frame() *CallFrame {
	return &vm.frames[vm.frameCount-1]
}

// SetGlobal installs or overwrites a global binding (used by natives
// registration and by OP_DEFINE_GLOBAL/OP_SET_GLOBAL).
func (vm *VM) SetGlobal(name string, v Value) {
	vm.globals.Put(name, v)
}

// GetGlobal reads a global binding.
func (vm *VM) GetGlobal(name string) (Value, bool) {
	return vm.globals.Get(name)
}
