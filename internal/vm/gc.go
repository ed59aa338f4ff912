package vm

// collectGarbage runs one full mark-sweep cycle: mark every object
// reachable from the root set, blacken the gray worklist, drop
// intern-table entries that didn't survive, then sweep the
// all-objects list (spec §4.4).
//
// The intern table is deliberately NOT itself a root: only Strings
// reachable some other way (stack, globals, an object field, ...)
// survive. This gives the intern table true weak-map semantics, so a
// String that nothing else references is collected and its entry
// removed rather than pinned forever — the same resolution the
// original clox design uses (see DESIGN.md for the spec.md wording
// this reconciles).
func (vm *VM) collectGarbage() {
	vm.markRoots()
	vm.traceReferences()
	vm.removeWeakStrings()
	vm.sweep()
}

func (vm *VM) markRoots() {
	for i := 0; i < vm.sp; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		vm.markObject(vm.frames[i].closure)
	}
	vm.globals.Iter(func(_ string, v Value) bool {
		vm.markValue(v)
		return false
	})
	for u := vm.openUpvalues; u != nil; u = u.Next {
		vm.markObject(u)
	}
	vm.markObject(vm.names.initName)
	vm.markObject(vm.names.add)
	vm.markObject(vm.names.sub)
	vm.markObject(vm.names.mul)
	vm.markObject(vm.names.div)
	vm.markObject(vm.names.mod)
	vm.markObject(vm.names.and)
	vm.markObject(vm.names.or)
	vm.markObject(vm.names.xor)
	vm.markObject(vm.names.gt)
	vm.markObject(vm.names.lt)
	vm.markObject(vm.names.eq)
	vm.markObject(vm.names.not)
	for _, f := range vm.compilingFuncs {
		vm.markObject(f)
	}
}

func (vm *VM) markValue(v Value) {
	if v.Type == ValObj {
		vm.markObject(v.Obj)
	}
}

// markObject colors a white object gray by pushing it on the worklist.
// Nil and already-gray-or-black objects (marked == true) are no-ops.
func (vm *VM) markObject(o Object) {
	if o == nil {
		return
	}
	h := o.header()
	if h.marked {
		return
	}
	h.marked = true
	vm.grayStack = append(vm.grayStack, o)
}

// traceReferences drains the gray worklist, blackening each object by
// marking everything it points to (spec §4.4 "Mark phase").
func (vm *VM) traceReferences() {
	for len(vm.grayStack) > 0 {
		n := len(vm.grayStack) - 1
		obj := vm.grayStack[n]
		vm.grayStack = vm.grayStack[:n]
		vm.blacken(obj)
	}
}

func (vm *VM) blacken(obj Object) {
	switch o := obj.(type) {
	case *String:
		// terminal: no outgoing references
	case *Function:
		if o.Name != nil {
			vm.markObject(o.Name)
		}
		for _, c := range o.Chunk.Constants {
			vm.markValue(c)
		}
	case *Native:
		// terminal
	case *Closure:
		vm.markObject(o.Fn)
		for _, u := range o.Upvalues {
			vm.markObject(u)
		}
	case *Upvalue:
		vm.markValue(o.Get())
	case *Class:
		vm.markObject(o.Name)
		o.Methods.Iter(func(_ string, m *Closure) bool {
			vm.markObject(m)
			return false
		})
		o.FieldDefaults.Iter(func(_ string, v Value) bool {
			vm.markValue(v)
			return false
		})
	case *Instance:
		vm.markObject(o.Class)
		o.Fields.Iter(func(_ string, v Value) bool {
			vm.markValue(v)
			return false
		})
	case *BoundMethod:
		vm.markValue(o.Receiver)
		vm.markObject(o.Method)
	case *Table:
		o.Entries.Iter(func(k, v Value) bool {
			vm.markValue(k)
			vm.markValue(v)
			return false
		})
	case *Array:
		for _, v := range o.Values {
			vm.markValue(v)
		}
	}
}

// sweep walks the intrusive all-objects list, freeing (unlinking) every
// unmarked object and clearing the mark bit on survivors (spec §4.4
// "Sweep").
func (vm *VM) sweep() {
	var prev Object
	obj := vm.allObjects
	for obj != nil {
		h := obj.header()
		if h.marked {
			h.marked = false
			prev = obj
			obj = h.next
			continue
		}
		unreached := obj
		obj = h.next
		if prev != nil {
			prev.header().next = obj
		} else {
			vm.allObjects = obj
		}
		_ = unreached // Go's own GC reclaims memory once unlinked
		vm.bytesAllocated -= heapSize
	}
}
