package vm

import "fmt"

// binaryResult is what a binary-operator helper decided to do: either it
// computed a plain Value to push, or operands were same-class instances
// and it has already pushed a gathered-arguments frame for the dunder
// method (spec §4.3 "Dunder dispatch") that the dispatch loop must now
// run instead of pushing a result itself.
type binaryResult struct {
	value  Value
	dunder bool
}

// dispatchDunder pushes receiver/argument and calls the named method,
// leaving its frame for the main dispatch loop to execute; the method's
// eventual OP_RETURN leaves the result on the stack exactly where a
// plain binary op would have (spec §4.3).
func (vm *VM) dispatchDunder(a, b Value, name *String) (binaryResult, error) {
	ai, bi := a.AsInstance(), b.AsInstance()
	if ai.Class != bi.Class {
		return binaryResult{}, fmt.Errorf("cannot combine instances of different classes")
	}
	method, ok := ai.Class.Methods.Get(name.Chars)
	if !ok {
		return binaryResult{}, fmt.Errorf("class '%s' has no '%s' method", ai.Class.Name.Chars, name.Chars)
	}
	if err := vm.push(a); err != nil {
		return binaryResult{}, err
	}
	if err := vm.push(b); err != nil {
		return binaryResult{}, err
	}
	if err := vm.call(method, 1); err != nil {
		return binaryResult{}, err
	}
	return binaryResult{dunder: true}, nil
}

// add implements ADD's polymorphism: string concat, numeric sum, table
// merge (right-biased), array concat, or instance __add (spec §4.3
// "ADD").
func (vm *VM) add(a, b Value) (binaryResult, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		return binaryResult{value: Number(a.AsNumber() + b.AsNumber())}, nil
	case a.IsObjType(tString) && b.IsObjType(tString):
		return binaryResult{value: ObjVal(vm.internString(a.AsString().Chars + b.AsString().Chars))}, nil
	case a.IsObjType(tTable) && b.IsObjType(tTable):
		return binaryResult{value: vm.mergeTables(a.AsTable(), b.AsTable())}, nil
	case a.IsObjType(tArray) && b.IsObjType(tArray):
		return binaryResult{value: vm.concatArrays(a.AsArray(), b.AsArray())}, nil
	case a.IsObjType(tInstance) && b.IsObjType(tInstance):
		return vm.dispatchDunder(a, b, vm.names.add)
	}
	return binaryResult{}, fmt.Errorf("operands must be two numbers, two strings, two tables, two arrays, or two instances")
}

func (vm *VM) mergeTables(a, b *Table) Value {
	out := vm.newTable()
	a.Entries.Iter(func(k, v Value) bool {
		out.Entries.Put(k, v)
		return false
	})
	b.Entries.Iter(func(k, v Value) bool {
		out.Entries.Put(k, v)
		return false
	})
	return ObjVal(out)
}

func (vm *VM) concatArrays(a, b *Array) Value {
	values := make([]Value, 0, len(a.Values)+len(b.Values))
	values = append(values, a.Values...)
	values = append(values, b.Values...)
	return ObjVal(vm.newArray(values))
}

// numericBinary implements SUBTRACT/MULTIPLY/DIVIDE/MODULO/bitwise/shift
// ops: numeric when both operands are numbers (integer-truncated for
// modulo, bitwise and shift per spec), else falls back to the matching
// instance dunder.
func (vm *VM) numericBinary(op Opcode, a, b Value) (binaryResult, error) {
	if a.IsNumber() && b.IsNumber() {
		x, y := a.AsNumber(), b.AsNumber()
		switch op {
		case OP_SUBTRACT:
			return binaryResult{value: Number(x - y)}, nil
		case OP_MULTIPLY:
			return binaryResult{value: Number(x * y)}, nil
		case OP_DIVIDE:
			return binaryResult{value: Number(x / y)}, nil
		case OP_MODULO:
			return binaryResult{value: Number(float64(int64(x) % int64(y)))}, nil
		case OP_BITWISE_AND:
			return binaryResult{value: Number(float64(int64(x) & int64(y)))}, nil
		case OP_BITWISE_OR:
			return binaryResult{value: Number(float64(int64(x) | int64(y)))}, nil
		case OP_BITWISE_XOR:
			return binaryResult{value: Number(float64(int64(x) ^ int64(y)))}, nil
		case OP_SHIFT_LEFT:
			return binaryResult{value: Number(float64(int64(x) << uint(int64(y))))}, nil
		case OP_SHIFT_RIGHT:
			return binaryResult{value: Number(float64(int64(x) >> uint(int64(y))))}, nil
		}
	}
	if a.IsObjType(tInstance) && b.IsObjType(tInstance) {
		if name, ok := vm.dunderFor(op); ok {
			return vm.dispatchDunder(a, b, name)
		}
	}
	return binaryResult{}, fmt.Errorf("operands must be numbers")
}

func (vm *VM) dunderFor(op Opcode) (*String, bool) {
	switch op {
	case OP_SUBTRACT:
		return vm.names.sub, true
	case OP_MULTIPLY:
		return vm.names.mul, true
	case OP_DIVIDE:
		return vm.names.div, true
	case OP_MODULO:
		return vm.names.mod, true
	case OP_BITWISE_AND:
		return vm.names.and, true
	case OP_BITWISE_OR:
		return vm.names.or, true
	case OP_BITWISE_XOR:
		return vm.names.xor, true
	}
	return nil, false
}

// equal implements EQUAL's polymorphism: reference/value equality via
// Value.Equals, or, for two instances of the same class, dispatch to a
// user-defined __eq (spec §4.3 "EQUAL").
func (vm *VM) equal(a, b Value) (binaryResult, error) {
	if a.IsObjType(tInstance) && b.IsObjType(tInstance) {
		return vm.dispatchDunder(a, b, vm.names.eq)
	}
	return binaryResult{value: Bool(a.Equals(b))}, nil
}

// compareOrder implements GREATER/LESS: numeric comparison, or dispatch
// to __gt/__lt when both operands are instances of the same class (spec
// §4.3).
func (vm *VM) compareOrder(op Opcode, a, b Value) (binaryResult, error) {
	if a.IsNumber() && b.IsNumber() {
		if op == OP_GREATER {
			return binaryResult{value: Bool(a.AsNumber() > b.AsNumber())}, nil
		}
		return binaryResult{value: Bool(a.AsNumber() < b.AsNumber())}, nil
	}
	if a.IsObjType(tInstance) && b.IsObjType(tInstance) {
		name := vm.names.gt
		if op == OP_LESS {
			name = vm.names.lt
		}
		return vm.dispatchDunder(a, b, name)
	}
	return binaryResult{}, fmt.Errorf("operands must be numbers")
}

// not implements falsey-test NOT, with the instance-pair __not quirk
// preserved verbatim from the source: a unary op that nonetheless checks
// both the value and whatever sits just below it for instance-ness (spec
// §4.3 "NOT"). below is only popped when the dunder branch is taken —
// dispatchDunder pushes its own fresh copies of both operands for the
// call frame, so the original below slot must be consumed here rather
// than left on the stack underneath them.
func (vm *VM) not(v Value) (binaryResult, error) {
	below := vm.peek(0)
	if v.IsObjType(tInstance) && below.IsObjType(tInstance) {
		vm.pop()
		return vm.dispatchDunder(below, v, vm.names.not)
	}
	return binaryResult{value: Bool(v.Falsey())}, nil
}
