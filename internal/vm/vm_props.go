package vm

import "fmt"

// getProperty implements GET_PROPERTY: on an instance, a field shadows a
// method of the same name; tables look the key up directly and error if
// it is absent (spec §4.3 "GET_PROPERTY").
func (vm *VM) getProperty(name string) error {
	receiver := vm.pop()
	switch {
	case receiver.IsObjType(tInstance):
		instance := receiver.AsInstance()
		if v, ok := instance.Fields.Get(name); ok {
			return vm.push(v)
		}
		bound, err := vm.bindMethod(instance.Class, receiver, name)
		if err != nil {
			return err
		}
		return vm.push(bound)
	case receiver.IsObjType(tTable):
		v, ok := receiver.AsTable().Entries.Get(ObjVal(vm.internString(name)))
		if !ok {
			return fmt.Errorf("undefined property '%s'", name)
		}
		return vm.push(v)
	}
	return fmt.Errorf("only instances and tables have properties")
}

// setProperty implements SET_PROPERTY: instance field write (creating
// the field if absent) or table key write.
func (vm *VM) setProperty(name string) error {
	value := vm.peek(0)
	receiver := vm.peek(1)
	switch {
	case receiver.IsObjType(tInstance):
		receiver.AsInstance().Fields.Put(name, value)
	case receiver.IsObjType(tTable):
		receiver.AsTable().Entries.Put(ObjVal(vm.internString(name)), value)
	default:
		return fmt.Errorf("only instances and tables have properties")
	}
	vm.pop()
	vm.pop()
	return vm.push(value)
}

// indexGet implements INDEX: 1-char string slicing, array element
// access, table key lookup (spec §4.3 "INDEX").
func (vm *VM) indexGet(container, idx Value) (Value, error) {
	switch {
	case container.IsObjType(tString):
		s := container.AsString()
		i, err := boundedIndex(idx, len(s.Chars))
		if err != nil {
			return Value{}, err
		}
		return ObjVal(vm.internString(string(s.Chars[i]))), nil
	case container.IsObjType(tArray):
		a := container.AsArray()
		i, err := boundedIndex(idx, len(a.Values))
		if err != nil {
			return Value{}, err
		}
		return a.Values[i], nil
	case container.IsObjType(tTable):
		t := container.AsTable()
		v, ok := t.Entries.Get(idx)
		if !ok {
			return Nil(), nil
		}
		return v, nil
	}
	return Value{}, fmt.Errorf("only strings, arrays, and tables can be indexed")
}

// indexSet implements SET_INDEX: bounds-checked array write, table key
// write, or single-character in-place string write (spec §4.3
// "SET_INDEX").
func (vm *VM) indexSet(container, idx, value Value) error {
	switch {
	case container.IsObjType(tArray):
		a := container.AsArray()
		i, err := boundedIndex(idx, len(a.Values))
		if err != nil {
			return err
		}
		a.Values[i] = value
		return nil
	case container.IsObjType(tTable):
		container.AsTable().Entries.Put(idx, value)
		return nil
	case container.IsObjType(tString):
		s := container.AsString()
		i, err := boundedIndex(idx, len(s.Chars))
		if err != nil {
			return err
		}
		if !value.IsObjType(tString) || len(value.AsString().Chars) != 1 {
			return fmt.Errorf("assigned value must be a 1-character string")
		}
		b := []byte(s.Chars)
		b[i] = value.AsString().Chars[0]
		s.Chars = string(b)
		return nil
	}
	return fmt.Errorf("only strings, arrays, and tables support index assignment")
}

func boundedIndex(idx Value, length int) (int, error) {
	if !idx.IsNumber() {
		return 0, fmt.Errorf("index must be a number")
	}
	i := int(idx.AsNumber())
	if i < 0 || i >= length {
		return 0, fmt.Errorf("index out of bounds")
	}
	return i, nil
}
