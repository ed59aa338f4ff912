package vm

import (
	"fmt"
	"strings"
)

// DisassembleChunk renders every instruction in chunk as one line,
// labeled name (spec §9 "disassembler" support for debug tooling).
func DisassembleChunk(chunk *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	offset := 0
	for offset < chunk.Len() {
		offset = disassembleInstruction(&b, chunk, offset)
	}
	return b.String()
}

func disassembleInstruction(b *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(b, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		fmt.Fprint(b, "   | ")
	} else {
		fmt.Fprintf(b, "%4d ", chunk.Lines[offset])
	}

	op := Opcode(chunk.ReadByte(offset))
	name := OpcodeNames[op]

	switch op {
	case OP_CONSTANT, OP_GET_GLOBAL, OP_DEFINE_GLOBAL, OP_SET_GLOBAL,
		OP_GET_PROPERTY, OP_SET_PROPERTY, OP_GET_SUPER, OP_CLASS, OP_METHOD, OP_PROPERTY:
		return constantInstruction(b, name, chunk, offset)
	case OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_UPVALUE, OP_SET_UPVALUE, OP_CALL:
		return byteInstruction(b, name, chunk, offset)
	case OP_INVOKE, OP_SUPER_INVOKE:
		return invokeInstruction(b, name, chunk, offset)
	case OP_JUMP, OP_JUMP_IF_FALSE:
		return jumpInstruction(b, name, chunk, offset, 1)
	case OP_LOOP:
		return jumpInstruction(b, name, chunk, offset, -1)
	case OP_SET_TABLE, OP_SET_ARRAY:
		return byteInstruction(b, name, chunk, offset)
	case OP_CLOSURE:
		return closureInstruction(b, chunk, offset)
	default:
		fmt.Fprintf(b, "%s\n", name)
		return offset + 1
	}
}

func constantInstruction(b *strings.Builder, name string, chunk *Chunk, offset int) int {
	idx := chunk.ReadByte(offset + 1)
	fmt.Fprintf(b, "%-16s %4d '%s'\n", name, idx, chunk.Constants[idx].Inspect())
	return offset + 2
}

func byteInstruction(b *strings.Builder, name string, chunk *Chunk, offset int) int {
	slot := chunk.ReadByte(offset + 1)
	fmt.Fprintf(b, "%-16s %4d\n", name, slot)
	return offset + 2
}

func invokeInstruction(b *strings.Builder, name string, chunk *Chunk, offset int) int {
	nameIdx := chunk.ReadByte(offset + 1)
	argc := chunk.ReadByte(offset + 2)
	fmt.Fprintf(b, "%-16s (%d args) %4d '%s'\n", name, argc, nameIdx, chunk.Constants[nameIdx].Inspect())
	return offset + 3
}

func jumpInstruction(b *strings.Builder, name string, chunk *Chunk, offset, sign int) int {
	jump := int(chunk.ReadShort(offset + 1))
	target := offset + 3 + sign*jump
	fmt.Fprintf(b, "%-16s %4d -> %d\n", name, offset, target)
	return offset + 3
}

func closureInstruction(b *strings.Builder, chunk *Chunk, offset int) int {
	idx := chunk.ReadByte(offset + 1)
	fn := chunk.Constants[idx].AsFunction()
	fmt.Fprintf(b, "%-16s %4d '%s'\n", "CLOSURE", idx, fn.Inspect())
	next := offset + 2
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.ReadByte(next)
		index := chunk.ReadByte(next + 1)
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(b, "%04d      |                     %s %d\n", next, kind, index)
		next += 2
	}
	return next
}
