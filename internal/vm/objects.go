package vm

import (
	"fmt"
	"hash/fnv"

	"github.com/dolthub/swiss"
)

// objType tags every heap-allocated object variant (spec §3).
type objType byte

const (
	tString objType = iota
	tFunction
	tNative
	tClosure
	tUpvalue
	tClass
	tInstance
	tBoundMethod
	tTable
	tArray
)

// objHeader is embedded in every heap object. marked and next are the
// collector's bookkeeping: marked flips during the mark phase, next
// threads every live object into one intrusive list the sweep phase
// walks (spec §3, §4.4).
type objHeader struct {
	typ    objType
	marked bool
	next   Object
}

func (h *objHeader) header() *objHeader { return h }

// Object is implemented by every heap-allocated value. Values never
// hold an Object directly except through Value.Obj, so every reachable
// Object is only ever found by walking roots (spec invariant, §3).
type Object interface {
	Type() objType
	header() *objHeader
	Inspect() string
}

// ---- String ----------------------------------------------------------

// String is always produced through the heap's intern table; pointer
// equality between two *String values implies value equality (spec §3,
// §4.4 "String interning").
type String struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *String) Type() objType    { return tString }
func (s *String) Inspect() string  { return s.Chars }

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// ---- Function ----------------------------------------------------------

// Function is the compiled form of a script, function, method or
// initializer: its arity, captured-upvalue count, and bytecode.
type Function struct {
	objHeader
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *String // nil for the top-level script
}

func (f *Function) Type() objType { return tFunction }
func (f *Function) Inspect() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// ---- Native ----------------------------------------------------------

// NativeFn is a native-function implementation. It reports runtime
// errors through the ordinary Go error return rather than a shared
// global, since the VM threads itself through the call (spec §6).
type NativeFn func(vm *VM, args []Value) (Value, error)

// Native wraps a Go function as a VM-callable value. Arity of -1 means
// variadic (argument count is not checked).
type Native struct {
	objHeader
	Name  string
	Arity int
	Fn    NativeFn
}

func (n *Native) Type() objType     { return tNative }
func (n *Native) Inspect() string   { return fmt.Sprintf("<native %s>", n.Name) }

// ---- Closure / Upvalue ----------------------------------------------------------

// Closure pairs a compiled Function with the upvalues it captured at
// creation time. len(Upvalues) always equals Fn.UpvalueCount (spec
// invariant, §3).
type Closure struct {
	objHeader
	Fn       *Function
	Upvalues []*Upvalue
}

func (c *Closure) Type() objType   { return tClosure }
func (c *Closure) Inspect() string { return c.Fn.Inspect() }

// Upvalue is open while it still points into a live stack slot and
// closed once the VM copies that slot's value into Closed (spec §3,
// §4.3 "Upvalue lifecycle").
type Upvalue struct {
	objHeader
	Open     bool
	Location *Value // valid while Open; points into the VM's fixed stack array
	Closed   Value
	Next     *Upvalue // open-upvalue list, sorted by descending stack address
}

func (u *Upvalue) Type() objType   { return tUpvalue }
func (u *Upvalue) Inspect() string { return "<upvalue>" }

func (u *Upvalue) Get() Value {
	if u.Open {
		return *u.Location
	}
	return u.Closed
}

func (u *Upvalue) Set(v Value) {
	if u.Open {
		*u.Location = v
		return
	}
	u.Closed = v
}

func (u *Upvalue) close() {
	u.Closed = *u.Location
	u.Open = false
	u.Location = nil
}

// ---- Class / Instance / BoundMethod ----------------------------------------------------------

// Class is the runtime representation of a `class` declaration: its
// method table (name -> Closure) and its field-default table, used to
// seed new Instances (spec §3, §4.2 "Classes").
type Class struct {
	objHeader
	Name        *String
	Methods     *swiss.Map[string, *Closure]
	FieldDefaults *swiss.Map[string, Value]
}

func (c *Class) Type() objType   { return tClass }
func (c *Class) Inspect() string { return fmt.Sprintf("<class %s>", c.Name.Chars) }

func newClass(name *String) *Class {
	return &Class{
		objHeader:     objHeader{typ: tClass},
		Name:          name,
		Methods:       swiss.NewMap[string, *Closure](8),
		FieldDefaults: swiss.NewMap[string, Value](8),
	}
}

// Instance is a live object of some Class, carrying its own per-
// instance field table seeded from the class's field defaults.
type Instance struct {
	objHeader
	Class  *Class
	Fields *swiss.Map[string, Value]
}

func (i *Instance) Type() objType   { return tInstance }
func (i *Instance) Inspect() string { return fmt.Sprintf("<instance %s>", i.Class.Name.Chars) }

func newInstance(class *Class) *Instance {
	fields := swiss.NewMap[string, Value](8)
	class.FieldDefaults.Iter(func(k string, v Value) bool {
		fields.Put(k, v)
		return false
	})
	return &Instance{objHeader: objHeader{typ: tInstance}, Class: class, Fields: fields}
}

// BoundMethod couples a receiver with the Closure it dispatches to,
// materialized when a method is read as a value rather than invoked
// directly (the OP_INVOKE/OP_SUPER_INVOKE fast paths skip this, spec
// §4.2 "fused INVOKE name, argc").
type BoundMethod struct {
	objHeader
	Receiver Value
	Method   *Closure
}

func (b *BoundMethod) Type() objType   { return tBoundMethod }
func (b *BoundMethod) Inspect() string { return fmt.Sprintf("<bound %s>", b.Method.Inspect()) }

// ---- Table / Array ----------------------------------------------------------

// Table is a first-class hash aggregate mapping arbitrary Values to
// Values (spec §3).
type Table struct {
	objHeader
	Entries *swiss.Map[Value, Value]
}

func (t *Table) Type() objType   { return tTable }
func (t *Table) Inspect() string { return fmt.Sprintf("<table %d entries>", t.Entries.Count()) }

func newTable() *Table {
	return &Table{objHeader: objHeader{typ: tTable}, Entries: swiss.NewMap[Value, Value](8)}
}

// Array is a dense, growable sequence of Values.
type Array struct {
	objHeader
	Values []Value
}

func (a *Array) Type() objType   { return tArray }
func (a *Array) Inspect() string { return fmt.Sprintf("<array %d elems>", len(a.Values)) }
