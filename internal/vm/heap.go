package vm

// heapSize is charged against bytesAllocated for every allocation; the
// real size varies per variant but a flat estimate is enough to drive
// the GC trigger point without reflecting on every struct (spec §4.4
// "Allocator").
const heapSize = 64

// track links obj into the intrusive all-objects list and charges the
// allocation against bytesAllocated. Every allocation helper below ends
// by calling this, per spec §9 "every allocation ... must be a
// safepoint".
func (vm *VM) track(obj Object) {
	h := obj.header()
	h.next = vm.allObjects
	vm.allObjects = obj
	vm.bytesAllocated += heapSize
}

// collectIfNeeded runs a collection when bytesAllocated has crossed
// nextGC, then grows the threshold (spec §4.4 "Allocator").
func (vm *VM) collectIfNeeded() {
	if vm.bytesAllocated < vm.nextGC {
		return
	}
	vm.collectGarbage()
	vm.nextGC = vm.bytesAllocated * gcGrowFactor
	if vm.nextGC < gcMinThreshold {
		vm.nextGC = gcMinThreshold
	}
}

const gcGrowFactor = 2
const gcMinThreshold = 1 << 20

func (vm *VM) newFunction() *Function {
	f := &Function{objHeader: objHeader{typ: tFunction}, Chunk: NewChunk()}
	vm.collectIfNeeded()
	vm.track(f)
	return f
}

func (vm *VM) newNative(name string, arity int, fn NativeFn) *Native {
	n := &Native{objHeader: objHeader{typ: tNative}, Name: name, Arity: arity, Fn: fn}
	vm.collectIfNeeded()
	vm.track(n)
	return n
}

func (vm *VM) newClosure(fn *Function) *Closure {
	c := &Closure{
		objHeader: objHeader{typ: tClosure},
		Fn:        fn,
		Upvalues:  make([]*Upvalue, fn.UpvalueCount),
	}
	vm.collectIfNeeded()
	vm.track(c)
	return c
}

func (vm *VM) newOpenUpvalue(slot *Value) *Upvalue {
	u := &Upvalue{objHeader: objHeader{typ: tUpvalue}, Open: true, Location: slot}
	vm.collectIfNeeded()
	vm.track(u)
	return u
}

func (vm *VM) newClass(name *String) *Class {
	c := newClass(name)
	vm.collectIfNeeded()
	vm.track(c)
	return c
}

func (vm *VM) newInstance(class *Class) *Instance {
	i := newInstance(class)
	vm.collectIfNeeded()
	vm.track(i)
	return i
}

func (vm *VM) newBoundMethod(receiver Value, method *Closure) *BoundMethod {
	b := &BoundMethod{objHeader: objHeader{typ: tBoundMethod}, Receiver: receiver, Method: method}
	vm.collectIfNeeded()
	vm.track(b)
	return b
}

func (vm *VM) newTable() *Table {
	t := newTable()
	t.typ = tTable
	vm.collectIfNeeded()
	vm.track(t)
	return t
}

func (vm *VM) newArray(values []Value) *Array {
	a := &Array{objHeader: objHeader{typ: tArray}, Values: values}
	vm.collectIfNeeded()
	vm.track(a)
	return a
}
