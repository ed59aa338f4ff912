package vm

// Opcode is a single VM instruction (spec §4.3).
type Opcode byte

const (
	OP_CONSTANT Opcode = iota
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_POP
	OP_DUP

	OP_GET_LOCAL
	OP_SET_LOCAL
	OP_GET_GLOBAL
	OP_DEFINE_GLOBAL
	OP_SET_GLOBAL
	OP_GET_UPVALUE
	OP_SET_UPVALUE
	OP_GET_PROPERTY
	OP_SET_PROPERTY
	OP_GET_SUPER

	OP_EQUAL
	OP_GREATER
	OP_LESS

	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_MODULO
	OP_BITWISE_AND
	OP_BITWISE_OR
	OP_BITWISE_XOR
	OP_SHIFT_LEFT
	OP_SHIFT_RIGHT
	OP_NEGATE
	OP_NOT
	OP_INCREMENT
	OP_DECREMENT

	OP_JUMP
	OP_JUMP_IF_FALSE
	OP_LOOP

	OP_CALL
	OP_INVOKE
	OP_SUPER_INVOKE
	OP_CLOSURE
	OP_CLOSE_UPVALUE
	OP_RETURN

	OP_CLASS
	OP_INHERIT
	OP_METHOD
	OP_PROPERTY

	OP_INDEX
	OP_SET_INDEX
	OP_SET_TABLE
	OP_SET_ARRAY

	OP_DUMP
)

// OpcodeNames maps every opcode to its disassembler mnemonic.
var OpcodeNames = map[Opcode]string{
	OP_CONSTANT: "CONSTANT",
	OP_NIL:      "NIL",
	OP_TRUE:     "TRUE",
	OP_FALSE:    "FALSE",
	OP_POP:      "POP",
	OP_DUP:      "DUP",

	OP_GET_LOCAL:     "GET_LOCAL",
	OP_SET_LOCAL:     "SET_LOCAL",
	OP_GET_GLOBAL:    "GET_GLOBAL",
	OP_DEFINE_GLOBAL: "DEFINE_GLOBAL",
	OP_SET_GLOBAL:    "SET_GLOBAL",
	OP_GET_UPVALUE:   "GET_UPVALUE",
	OP_SET_UPVALUE:   "SET_UPVALUE",
	OP_GET_PROPERTY:  "GET_PROPERTY",
	OP_SET_PROPERTY:  "SET_PROPERTY",
	OP_GET_SUPER:     "GET_SUPER",

	OP_EQUAL:  "EQUAL",
	OP_GREATER: "GREATER",
	OP_LESS:    "LESS",

	OP_ADD:          "ADD",
	OP_SUBTRACT:     "SUBTRACT",
	OP_MULTIPLY:     "MULTIPLY",
	OP_DIVIDE:       "DIVIDE",
	OP_MODULO:       "MODULO",
	OP_BITWISE_AND:  "BITWISE_AND",
	OP_BITWISE_OR:   "BITWISE_OR",
	OP_BITWISE_XOR:  "BITWISE_XOR",
	OP_SHIFT_LEFT:   "SHIFT_LEFT",
	OP_SHIFT_RIGHT:  "SHIFT_RIGHT",
	OP_NEGATE:       "NEGATE",
	OP_NOT:          "NOT",
	OP_INCREMENT:    "INCREMENT",
	OP_DECREMENT:    "DECREMENT",

	OP_JUMP:          "JUMP",
	OP_JUMP_IF_FALSE: "JUMP_IF_FALSE",
	OP_LOOP:          "LOOP",

	OP_CALL:         "CALL",
	OP_INVOKE:       "INVOKE",
	OP_SUPER_INVOKE: "SUPER_INVOKE",
	OP_CLOSURE:      "CLOSURE",
	OP_CLOSE_UPVALUE: "CLOSE_UPVALUE",
	OP_RETURN:       "RETURN",

	OP_CLASS:    "CLASS",
	OP_INHERIT:  "INHERIT",
	OP_METHOD:   "METHOD",
	OP_PROPERTY: "PROPERTY",

	OP_INDEX:     "INDEX",
	OP_SET_INDEX: "SET_INDEX",
	OP_SET_TABLE: "SET_TABLE",
	OP_SET_ARRAY: "SET_ARRAY",

	OP_DUMP: "DUMP",
}
