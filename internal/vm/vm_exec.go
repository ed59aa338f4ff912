package vm

import (
	"fmt"
	"os"
	"strings"
)

// Interpret compiles and runs source to completion, returning a runtime
// error (if any) distinct from a compile error so the driver can select
// the right exit code (spec §6 "Exit codes").
func (vm *VM) Interpret(source string) (compileErr, runtimeErr error) {
	fn, err := vm.Compile(source)
	if err != nil {
		return err, nil
	}
	closure := vm.newClosure(fn)
	if pushErr := vm.push(ObjVal(closure)); pushErr != nil {
		return nil, pushErr
	}
	if callErr := vm.call(closure, 0); callErr != nil {
		return nil, callErr
	}
	return nil, vm.run()
}

// run is the tight bytecode dispatch loop (spec §4.3 "Dispatch"): it
// fetches the next opcode via the current frame's ip and switches on it.
// Every named operand read advances ip as it reads.
func (vm *VM) run() error {
	baseFrame := vm.frameCount - 1
	for {
		frame := vm.frame()
		chunk := frame.closure.Fn.Chunk
		if vm.Debug {
			var trace strings.Builder
			trace.WriteString("          ")
			for i := 0; i < vm.sp; i++ {
				fmt.Fprintf(&trace, "[ %s ]", vm.stack[i].Inspect())
			}
			trace.WriteString("\n")
			disassembleInstruction(&trace, chunk, frame.ip)
			fmt.Fprint(vm.Out, trace.String())
		}
		line := chunk.Lines[frame.ip]
		op := Opcode(chunk.ReadByte(frame.ip))
		frame.ip++

		readByte := func() byte {
			b := chunk.ReadByte(frame.ip)
			frame.ip++
			return b
		}
		readShort := func() int {
			s := chunk.ReadShort(frame.ip)
			frame.ip += 2
			return int(s)
		}
		readConstant := func() Value {
			return chunk.Constants[readByte()]
		}
		readString := func() *String {
			return readConstant().AsString()
		}

		switch op {
		case OP_CONSTANT:
			if err := vm.push(readConstant()); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_NIL:
			vm.push(Nil())
		case OP_TRUE:
			vm.push(Bool(true))
		case OP_FALSE:
			vm.push(Bool(false))
		case OP_POP:
			vm.pop()
		case OP_DUP:
			if err := vm.push(vm.peek(0)); err != nil {
				return vm.runtimeError(line, err)
			}

		case OP_GET_LOCAL:
			slot := readByte()
			vm.push(vm.stack[frame.base+int(slot)])
		case OP_SET_LOCAL:
			slot := readByte()
			vm.stack[frame.base+int(slot)] = vm.peek(0)

		case OP_GET_GLOBAL:
			name := readString()
			v, ok := vm.GetGlobal(name.Chars)
			if !ok {
				return vm.runtimeError(line, fmt.Errorf("undefined variable '%s'", name.Chars))
			}
			vm.push(v)
		case OP_DEFINE_GLOBAL:
			name := readString()
			vm.SetGlobal(name.Chars, vm.peek(0))
			vm.pop()
		case OP_SET_GLOBAL:
			name := readString()
			if _, ok := vm.GetGlobal(name.Chars); !ok {
				return vm.runtimeError(line, fmt.Errorf("undefined variable '%s'", name.Chars))
			}
			vm.SetGlobal(name.Chars, vm.peek(0))

		case OP_GET_UPVALUE:
			slot := readByte()
			vm.push(frame.closure.Upvalues[slot].Get())
		case OP_SET_UPVALUE:
			slot := readByte()
			frame.closure.Upvalues[slot].Set(vm.peek(0))

		case OP_GET_PROPERTY:
			name := readString()
			if err := vm.getProperty(name.Chars); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_SET_PROPERTY:
			name := readString()
			if err := vm.setProperty(name.Chars); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_GET_SUPER:
			name := readString()
			superclass := vm.pop().AsClass()
			receiver := vm.pop()
			bound, err := vm.bindMethod(superclass, receiver, name.Chars)
			if err != nil {
				return vm.runtimeError(line, err)
			}
			if err := vm.push(bound); err != nil {
				return vm.runtimeError(line, err)
			}

		case OP_EQUAL:
			b, a := vm.pop(), vm.pop()
			res, err := vm.equal(a, b)
			if err != nil {
				return vm.runtimeError(line, err)
			}
			if !vm.pushBinaryResult(res) {
				return nil
			}
		case OP_GREATER, OP_LESS:
			b, a := vm.pop(), vm.pop()
			res, err := vm.compareOrder(op, a, b)
			if err != nil {
				return vm.runtimeError(line, err)
			}
			if !vm.pushBinaryResult(res) {
				return nil
			}

		case OP_ADD:
			b, a := vm.pop(), vm.pop()
			res, err := vm.add(a, b)
			if err != nil {
				return vm.runtimeError(line, err)
			}
			vm.pushBinaryResult(res)
		case OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_MODULO,
			OP_BITWISE_AND, OP_BITWISE_OR, OP_BITWISE_XOR,
			OP_SHIFT_LEFT, OP_SHIFT_RIGHT:
			b, a := vm.pop(), vm.pop()
			res, err := vm.numericBinary(op, a, b)
			if err != nil {
				return vm.runtimeError(line, err)
			}
			vm.pushBinaryResult(res)

		case OP_NEGATE:
			v := vm.pop()
			if !v.IsNumber() {
				return vm.runtimeError(line, fmt.Errorf("operand must be a number"))
			}
			vm.push(Number(-v.AsNumber()))
		case OP_NOT:
			v := vm.pop()
			res, err := vm.not(v)
			if err != nil {
				return vm.runtimeError(line, err)
			}
			if !vm.pushBinaryResult(res) {
				return nil
			}
		case OP_INCREMENT:
			v := vm.pop()
			vm.push(Number(v.AsNumber() + 1))
		case OP_DECREMENT:
			v := vm.pop()
			vm.push(Number(v.AsNumber() - 1))

		case OP_JUMP:
			offset := readShort()
			frame.ip += offset
		case OP_JUMP_IF_FALSE:
			offset := readShort()
			if vm.peek(0).Falsey() {
				frame.ip += offset
			}
		case OP_LOOP:
			offset := readShort()
			frame.ip -= offset

		case OP_CALL:
			argc := int(readByte())
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_INVOKE:
			name := readString()
			argc := int(readByte())
			if err := vm.invoke(name.Chars, argc); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_SUPER_INVOKE:
			name := readString()
			argc := int(readByte())
			superclass := vm.pop().AsClass()
			if err := vm.invokeFromClass(superclass, name.Chars, argc); err != nil {
				return vm.runtimeError(line, err)
			}

		case OP_CLOSURE:
			fn := readConstant().AsFunction()
			closure := vm.newClosure(fn)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(&vm.stack[frame.base+int(index)])
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
			if err := vm.push(ObjVal(closure)); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_CLOSE_UPVALUE:
			vm.closeUpvalues(&vm.stack[vm.sp-1])
			vm.pop()

		case OP_RETURN:
			result := vm.pop()
			vm.closeUpvalues(&vm.stack[frame.base])
			vm.frameCount--
			if vm.frameCount == baseFrame {
				vm.sp = frame.base
				return vm.pushReturn(result)
			}
			vm.sp = frame.base
			if err := vm.push(result); err != nil {
				return vm.runtimeError(line, err)
			}

		case OP_CLASS:
			name := readString()
			if err := vm.push(ObjVal(vm.newClass(name))); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_INHERIT:
			superVal := vm.peek(1)
			if !superVal.IsObjType(tClass) {
				return vm.runtimeError(line, fmt.Errorf("superclass must be a class"))
			}
			subclass := vm.peek(0).AsClass()
			superVal.AsClass().Methods.Iter(func(k string, v *Closure) bool {
				subclass.Methods.Put(k, v)
				return false
			})
			vm.pop()
		case OP_METHOD:
			name := readString()
			method := vm.pop().AsClosure()
			class := vm.peek(0).AsClass()
			class.Methods.Put(name.Chars, method)
		case OP_PROPERTY:
			name := readString()
			value := vm.pop()
			class := vm.peek(0).AsClass()
			class.FieldDefaults.Put(name.Chars, value)

		case OP_INDEX:
			idx, container := vm.pop(), vm.pop()
			v, err := vm.indexGet(container, idx)
			if err != nil {
				return vm.runtimeError(line, err)
			}
			if err := vm.push(v); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_SET_INDEX:
			value, idx, container := vm.pop(), vm.pop(), vm.pop()
			if err := vm.indexSet(container, idx, value); err != nil {
				return vm.runtimeError(line, err)
			}
			if err := vm.push(value); err != nil {
				return vm.runtimeError(line, err)
			}

		case OP_SET_TABLE:
			count := int(readByte())
			table := vm.newTable()
			pairs := vm.stack[vm.sp-count*2 : vm.sp]
			for i := 0; i < count; i++ {
				table.Entries.Put(pairs[i*2], pairs[i*2+1])
			}
			vm.sp -= count * 2
			if err := vm.push(ObjVal(table)); err != nil {
				return vm.runtimeError(line, err)
			}
		case OP_SET_ARRAY:
			count := int(readByte())
			values := make([]Value, count)
			copy(values, vm.stack[vm.sp-count:vm.sp])
			vm.sp -= count
			if err := vm.push(ObjVal(vm.newArray(values))); err != nil {
				return vm.runtimeError(line, err)
			}

		case OP_DUMP:
			v := vm.pop()
			fmt.Fprintf(vm.Out, "%s\n", v.Inspect())

		default:
			return vm.runtimeError(line, fmt.Errorf("unknown opcode %d", op))
		}
	}
}

// pushBinaryResult pushes a computed Value, or does nothing when the
// operator instead dispatched to an instance method (whose own OP_RETURN
// will push the result once its frame runs), per spec §4.3 "Dunder
// dispatch".
func (vm *VM) pushBinaryResult(r binaryResult) bool {
	if r.dunder {
		return true
	}
	vm.push(r.value)
	return true
}

// pushReturn re-pushes result once control has unwound back to the frame
// that Interpret originally called into, ending vm.run. Dunder method
// frames never reach this path (they return through the ordinary
// OP_RETURN branch, which pushes the result for the operator's caller),
// so the value left here is the top-level script's own result, which
// Interpret does not read.
func (vm *VM) pushReturn(result Value) error {
	return vm.push(result)
}

// runtimeError formats the error and call-stack trace to stderr, then
// resets the VM stacks (spec §4.3 "Runtime errors", §7).
func (vm *VM) runtimeError(line int, err error) error {
	fmt.Fprintf(os.Stderr, "%s\n[line %d]\n", err.Error(), line)
	for i := vm.frameCount - 1; i >= 0; i-- {
		f := vm.frames[i]
		name := "script"
		if f.closure.Fn.Name != nil {
			name = f.closure.Fn.Name.Chars + "()"
		}
		fmt.Fprintf(os.Stderr, "[line %d] in %s\n", chunkLine(f), name)
	}
	vm.sp = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
	return err
}

func chunkLine(f CallFrame) int {
	ip := f.ip - 1
	if ip < 0 || ip >= len(f.closure.Fn.Chunk.Lines) {
		return -1
	}
	return f.closure.Fn.Chunk.Lines[ip]
}
