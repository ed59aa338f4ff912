package vm

import (
	"fmt"
	"unsafe"
)

// call pushes a new CallFrame for closure, checking arity (spec §4.3
// "Calling convention").
func (vm *VM) call(closure *Closure, argc int) error {
	if argc != closure.Fn.Arity {
		return fmt.Errorf("expected %d arguments but got %d", closure.Fn.Arity, argc)
	}
	if vm.frameCount >= MaxFrames {
		return fmt.Errorf("stack overflow")
	}
	vm.frames[vm.frameCount] = CallFrame{
		closure: closure,
		ip:      0,
		base:    vm.sp - argc - 1,
	}
	vm.frameCount++
	return nil
}

// callValue implements every callable shape: BoundMethod, Class
// (instantiation), Closure, Native (spec §4.3 "Calling convention").
func (vm *VM) callValue(callee Value, argc int) error {
	if callee.IsObj() {
		switch obj := callee.Obj.(type) {
		case *BoundMethod:
			vm.stack[vm.sp-argc-1] = obj.Receiver
			return vm.call(obj.Method, argc)
		case *Class:
			instance := vm.newInstance(obj)
			vm.stack[vm.sp-argc-1] = ObjVal(instance)
			if init, ok := obj.Methods.Get(vm.names.initName.Chars); ok {
				return vm.call(init, argc)
			}
			if argc != 0 {
				return fmt.Errorf("expected 0 arguments but got %d", argc)
			}
			return nil
		case *Closure:
			return vm.call(obj, argc)
		case *Native:
			return vm.callNative(obj, argc)
		}
	}
	return fmt.Errorf("can only call functions and classes")
}

func (vm *VM) callNative(n *Native, argc int) error {
	if n.Arity >= 0 && argc != n.Arity {
		return fmt.Errorf("expected %d arguments but got %d", n.Arity, argc)
	}
	args := make([]Value, argc)
	copy(args, vm.stack[vm.sp-argc:vm.sp])
	result, err := n.Fn(vm, args)
	if err != nil {
		return err
	}
	vm.sp -= argc + 1
	return vm.push(result)
}

// bindMethod looks a method up on class and wraps it with receiver into
// a BoundMethod (spec §4.3 "GET_PROPERTY ... falls through to
// bindMethod").
func (vm *VM) bindMethod(class *Class, receiver Value, name string) (Value, error) {
	method, ok := class.Methods.Get(name)
	if !ok {
		return Value{}, fmt.Errorf("undefined property '%s'", name)
	}
	return ObjVal(vm.newBoundMethod(receiver, method)), nil
}

// invoke fuses GET_PROPERTY+CALL for the common method-call case,
// checking instance fields first so a callable stored as a field shadows
// a same-named method (spec §4.3 "INVOKE").
func (vm *VM) invoke(name string, argc int) error {
	receiver := vm.peek(argc)
	if receiver.IsObjType(tTable) {
		// Native module tables (the Value returned by module("math"))
		// have no class, so there's no method to dispatch to directly;
		// fall back to a plain property lookup + generic call, the way
		// `m.sqrt(9)` is indistinguishable in source from `let sqrt =
		// m.sqrt; sqrt(9)`.
		v, ok := receiver.AsTable().Entries.Get(ObjVal(vm.internString(name)))
		if !ok {
			return fmt.Errorf("undefined property '%s'", name)
		}
		vm.stack[vm.sp-argc-1] = v
		return vm.callValue(v, argc)
	}
	if !receiver.IsObjType(tInstance) {
		return fmt.Errorf("only instances and tables have methods")
	}
	instance := receiver.AsInstance()
	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.sp-argc-1] = field
		return vm.callValue(field, argc)
	}
	method, ok := instance.Class.Methods.Get(name)
	if !ok {
		return fmt.Errorf("undefined property '%s'", name)
	}
	return vm.call(method, argc)
}

func (vm *VM) invokeFromClass(class *Class, name string, argc int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return fmt.Errorf("undefined property '%s'", name)
	}
	return vm.call(method, argc)
}

// captureUpvalue finds or creates the open upvalue pointing at slot,
// keeping the open-upvalue list sorted by descending stack address (spec
// §4.3 "Upvalue lifecycle"). The VM's stack is a fixed array (never
// reallocated), so slot pointers stay valid as long as the program runs.
func (vm *VM) captureUpvalue(slot *Value) *Upvalue {
	var prev *Upvalue
	up := vm.openUpvalues
	for up != nil && addr(up.Location) > addr(slot) {
		prev = up
		up = up.Next
	}
	if up != nil && up.Location == slot {
		return up
	}
	created := vm.newOpenUpvalue(slot)
	created.Next = up
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above floor, copying its
// slot value in and unlinking it from the open list (spec §4.3).
func (vm *VM) closeUpvalues(floor *Value) {
	for vm.openUpvalues != nil && addr(vm.openUpvalues.Location) >= addr(floor) {
		up := vm.openUpvalues
		up.close()
		vm.openUpvalues = up.Next
	}
}

func addr(v *Value) uintptr { return uintptr(unsafe.Pointer(v)) }
