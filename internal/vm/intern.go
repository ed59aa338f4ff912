package vm

// internString returns the unique *String for chars, allocating and
// registering a new one only the first time chars is seen (spec §4.4
// "String interning"). Every String the VM ever produces goes through
// here, which is what makes pointer equality a valid equality check.
func (vm *VM) internString(chars string) *String {
	if s, ok := vm.interned[chars]; ok {
		return s
	}
	s := &String{
		objHeader: objHeader{typ: tString},
		Chars:     chars,
		Hash:      hashString(chars),
	}
	vm.collectIfNeeded()
	vm.track(s)
	vm.interned[chars] = s
	return s
}

// removeWeakStrings drops interned strings whose backing object did
// not survive the mark phase, implementing the intern table's weak-map
// semantics (spec §4.4 "Sweep": "Remove unmarked interned strings from
// the intern table before sweeping").
func (vm *VM) removeWeakStrings() {
	for chars, s := range vm.interned {
		if !s.marked {
			delete(vm.interned, chars)
		}
	}
}
