package vm

import (
	"fmt"
	"math"
)

// ValueType tags the Value union (spec §3).
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValObj
)

// Value is a stack-allocated tagged union. Nil/Bool/Number never
// allocate; only ValObj carries a heap reference, keeping the object
// alive for the collector as long as the Value sits on the stack, in a
// local slot, in a global, or inside another live object (spec §3
// invariants).
type Value struct {
	Type ValueType
	Data uint64 // bool (0/1) or float64 bits
	Obj  Object
}

func Nil() Value                 { return Value{Type: ValNil} }
func Bool(b bool) Value          {
	var d uint64
	if b {
		d = 1
	}
	return Value{Type: ValBool, Data: d}
}
func Number(n float64) Value     { return Value{Type: ValNumber, Data: math.Float64bits(n)} }
func ObjVal(o Object) Value      { return Value{Type: ValObj, Obj: o} }

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsObj() bool    { return v.Type == ValObj }

func (v Value) AsBool() bool      { return v.Data == 1 }
func (v Value) AsNumber() float64 { return math.Float64frombits(v.Data) }

func (v Value) IsObjType(t objType) bool {
	return v.Type == ValObj && v.Obj != nil && v.Obj.Type() == t
}

func (v Value) AsString() *String           { return v.Obj.(*String) }
func (v Value) AsClosure() *Closure         { return v.Obj.(*Closure) }
func (v Value) AsClass() *Class             { return v.Obj.(*Class) }
func (v Value) AsInstance() *Instance       { return v.Obj.(*Instance) }
func (v Value) AsBoundMethod() *BoundMethod { return v.Obj.(*BoundMethod) }
func (v Value) AsTable() *Table             { return v.Obj.(*Table) }
func (v Value) AsArray() *Array             { return v.Obj.(*Array) }
func (v Value) AsNative() *Native           { return v.Obj.(*Native) }
func (v Value) AsFunction() *Function       { return v.Obj.(*Function) }

// Falsey implements spec §3/§8: nil and false are falsey, everything
// else (including 0 and "") is truthy.
func (v Value) Falsey() bool {
	if v.Type == ValNil {
		return true
	}
	if v.Type == ValBool {
		return !v.AsBool()
	}
	return false
}

// Equals implements value equality: numbers/bools/nil compare by
// value, strings compare by reference (interning makes this exact,
// spec §3), everything else compares by reference.
func (v Value) Equals(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.Data == o.Data
	case ValNumber:
		return v.AsNumber() == o.AsNumber()
	case ValObj:
		if v.IsObjType(tString) && o.IsObjType(tString) {
			return v.Obj.(*String) == o.Obj.(*String)
		}
		return v.Obj == o.Obj
	default:
		return false
	}
}

// TypeName names a Value's runtime type for error messages.
func (v Value) TypeName() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		return "bool"
	case ValNumber:
		return "number"
	case ValObj:
		switch v.Obj.Type() {
		case tString:
			return "string"
		case tFunction:
			return "function"
		case tNative:
			return "native"
		case tClosure:
			return "closure"
		case tUpvalue:
			return "upvalue"
		case tClass:
			return "class"
		case tInstance:
			return "instance"
		case tBoundMethod:
			return "method"
		case tTable:
			return "table"
		case tArray:
			return "array"
		}
	}
	return "unknown"
}

// Inspect renders a Value for `dump` and the print/sprint builtins.
func (v Value) Inspect() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		return fmt.Sprintf("%t", v.AsBool())
	case ValNumber:
		return formatNumber(v.AsNumber())
	case ValObj:
		if v.Obj == nil {
			return "nil"
		}
		switch o := v.Obj.(type) {
		case *Array:
			return inspectArray(o)
		case *Table:
			return inspectTable(o)
		default:
			return o.Inspect()
		}
	}
	return "?"
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

func inspectArray(a *Array) string {
	s := "["
	for i, v := range a.Values {
		if i > 0 {
			s += ", "
		}
		s += v.Inspect()
	}
	return s + "]"
}

func inspectTable(t *Table) string {
	s := "{"
	first := true
	t.Entries.Iter(func(k, v Value) bool {
		if !first {
			s += ", "
		}
		first = false
		s += k.Inspect() + ": " + v.Inspect()
		return false
	})
	return s + "}"
}
