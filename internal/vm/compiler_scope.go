package vm

import "github.com/lumenlang/lumen/internal/token"

// ---- scope / locals ----------------------------------------------------------

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops locals that fall out of scope, closing upvalues for any
// that were captured (spec §4.2 "endScope").
func (c *Compiler) endScope() {
	c.scopeDepth--
	line := c.parser.previous.Line
	for c.localCount > 0 && c.locals[c.localCount-1].Depth > c.scopeDepth {
		if c.locals[c.localCount-1].Captured {
			c.emit(OP_CLOSE_UPVALUE, line)
		} else {
			c.emit(OP_POP, line)
		}
		c.localCount--
	}
}

// addLocal reserves the next slot for name at depth -1 ("uninitialized",
// per spec "Variable declaration"); markInitialized promotes it once its
// initializer has been compiled.
func (c *Compiler) addLocal(name string) {
	if c.localCount >= 256 {
		c.parser.error("too many local variables in function")
		return
	}
	c.locals[c.localCount] = Local{Name: name, Depth: -1}
	c.localCount++
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[c.localCount-1].Depth = c.scopeDepth
}

// resolveLocal returns the slot of name in this compiler's locals, or -1.
func (c *Compiler) resolveLocal(name string) int {
	for i := c.localCount - 1; i >= 0; i-- {
		if c.locals[i].Name == name {
			if c.locals[i].Depth == -1 {
				c.parser.error("can't read local variable in its own initializer")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue recursively asks the enclosing compiler, marking the
// found local as captured, or threading an upvalue one level further out
// (spec §4.2 "resolveUpvalue").
func (c *Compiler) resolveUpvalue(name string) int {
	if c.enclosing == nil {
		return -1
	}
	if local := c.enclosing.resolveLocal(name); local != -1 {
		c.enclosing.locals[local].Captured = true
		return c.addUpvalue(uint8(local), true)
	}
	if up := c.enclosing.resolveUpvalue(name); up != -1 {
		return c.addUpvalue(uint8(up), false)
	}
	return -1
}

func (c *Compiler) addUpvalue(index uint8, isLocal bool) int {
	for i := 0; i < c.upvalueCount; i++ {
		if c.upvalues[i].Index == index && c.upvalues[i].IsLocal == isLocal {
			return i
		}
	}
	if c.upvalueCount >= 256 {
		c.parser.error("too many closure variables in function")
		return 0
	}
	c.upvalues[c.upvalueCount] = UpvalueRef{Index: index, IsLocal: isLocal}
	c.upvalueCount++
	return c.upvalueCount - 1
}

// declareVariable registers a local at the current scope, rejecting a
// redeclaration within the same block (spec §4.2 "Variable declaration").
func (c *Compiler) declareVariable(name string) {
	if c.scopeDepth == 0 {
		return
	}
	for i := c.localCount - 1; i >= 0; i-- {
		if c.locals[i].Depth != -1 && c.locals[i].Depth < c.scopeDepth {
			break
		}
		if c.locals[i].Name == name {
			c.parser.error("already a variable with this name in this scope")
		}
	}
	c.addLocal(name)
}

// parseVariable consumes an identifier and, for globals, returns its
// constant-pool name index; for locals it declares and returns 0 (unused).
func (c *Compiler) parseVariable(errMsg string) int {
	c.parser.consume(token.IDENT, errMsg)
	name := c.parser.previous.Lexeme
	c.declareVariable(name)
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

func (c *Compiler) identifierConstant(name string) int {
	idx, err := c.currentChunk().AddConstant(ObjVal(c.parser.vm.internString(name)))
	if err != nil {
		c.parser.error(err.Error())
	}
	return idx
}

func (c *Compiler) defineVariable(global int) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitByteOperand(OP_DEFINE_GLOBAL, global)
}

func (c *Compiler) currentChunk() *Chunk { return c.function.Chunk }

// ---- emit helpers ----------------------------------------------------------

func (c *Compiler) emit(op Opcode, line int) { c.currentChunk().WriteOp(op, line) }

func (c *Compiler) emitByte(b byte, line int) { c.currentChunk().Write(b, line) }

// emitByteOperand emits op followed by a single-byte operand: a constant-
// pool index, local/upvalue slot, or argument count (spec §4.1: constants
// are capped at 256 so every index fits one byte; locals/upvalues are
// likewise capped at 256).
func (c *Compiler) emitByteOperand(op Opcode, operand int) {
	line := c.parser.previous.Line
	c.emit(op, line)
	c.emitByte(byte(operand), line)
}

func (c *Compiler) emitConstant(v Value) {
	idx, err := c.currentChunk().AddConstant(v)
	if err != nil {
		c.parser.error(err.Error())
		return
	}
	c.emitByteOperand(OP_CONSTANT, idx)
}

func (c *Compiler) emitJump(op Opcode) int {
	line := c.parser.previous.Line
	c.emit(op, line)
	c.emitByte(0xff, line)
	c.emitByte(0xff, line)
	return c.currentChunk().Len() - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := c.currentChunk().Len() - offset - 2
	if jump > 0xffff {
		c.parser.error("too much code to jump over")
		return
	}
	c.currentChunk().Code[offset] = byte(jump >> 8)
	c.currentChunk().Code[offset+1] = byte(jump)
}

func (c *Compiler) emitLoop(loopStart int) {
	line := c.parser.previous.Line
	c.emit(OP_LOOP, line)
	offset := c.currentChunk().Len() - loopStart + 2
	if offset > 0xffff {
		c.parser.error("loop body too large")
	}
	c.emitByte(byte(offset>>8), line)
	c.emitByte(byte(offset), line)
}

func (c *Compiler) emitReturn() {
	line := c.parser.previous.Line
	if c.funcType == TypeInitializer {
		c.emitByteOperand(OP_GET_LOCAL, 0)
	} else {
		c.emit(OP_NIL, line)
	}
	c.emit(OP_RETURN, line)
}
