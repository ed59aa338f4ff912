package vm

import "github.com/lumenlang/lumen/internal/token"

// declaration dispatches to the three declaration forms or falls through
// to statement, recovering via synchronize on error (spec §4.2).
func (c *Compiler) declaration() {
	switch {
	case c.parser.match(token.CLASS):
		c.classDeclaration()
	case c.parser.match(token.FUN):
		c.funDeclaration()
	case c.parser.match(token.LET):
		c.letDeclaration()
	default:
		c.statement()
	}
	if c.parser.panicMode {
		c.parser.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.parser.match(token.DUMP):
		c.dumpStatement()
	case c.parser.match(token.IF):
		c.ifStatement()
	case c.parser.match(token.WHILE):
		c.whileStatement()
	case c.parser.match(token.FOR):
		c.forStatement()
	case c.parser.match(token.RETURN):
		c.returnStatement()
	case c.parser.match(token.SWITCH):
		c.switchStatement()
	case c.parser.match(token.BREAK):
		c.breakStatement()
	case c.parser.match(token.CONTINUE):
		c.continueStatement()
	case c.parser.match(token.LBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.parser.check(token.RBRACE) && !c.parser.check(token.EOF) {
		c.declaration()
	}
	c.parser.consume(token.RBRACE, "expect '}' after block")
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.parser.consume(token.SEMI, "expect ';' after expression")
	c.emit(OP_POP, c.parser.previous.Line)
}

func (c *Compiler) dumpStatement() {
	line := c.parser.previous.Line
	c.expression()
	c.parser.consume(token.SEMI, "expect ';' after value")
	c.emit(OP_DUMP, line)
}

// letDeclaration parses `let name (= expr)? ;`, per spec "Variable
// declaration": global(DEFINE_GLOBAL)/local paths share resolution.
func (c *Compiler) letDeclaration() {
	global := c.parseVariable("expect variable name")
	if c.parser.match(token.EQUAL) {
		c.expression()
	} else {
		c.emit(OP_NIL, c.parser.previous.Line)
	}
	c.parser.consume(token.SEMI, "expect ';' after variable declaration")
	c.defineVariable(global)
}

func (c *Compiler) ifStatement() {
	c.parser.consume(token.LPAREN, "expect '(' after 'if'")
	c.expression()
	c.parser.consume(token.RPAREN, "expect ')' after condition")

	thenJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emit(OP_POP, c.parser.previous.Line)
	c.statement()

	elseJump := c.emitJump(OP_JUMP)
	c.patchJump(thenJump)
	c.emit(OP_POP, c.parser.previous.Line)

	if c.parser.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.currentChunk().Len()
	c.loopStack = append(c.loopStack, loopContext{loopStart: loopStart})

	c.parser.consume(token.LPAREN, "expect '(' after 'while'")
	c.expression()
	c.parser.consume(token.RPAREN, "expect ')' after condition")

	exitJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emit(OP_POP, c.parser.previous.Line)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emit(OP_POP, c.parser.previous.Line)

	c.patchLoopBreaks()
}

// forStatement desugars C-style for loops with no AST, exactly per spec
// §4.2 "for desugaring".
func (c *Compiler) forStatement() {
	c.beginScope()
	c.parser.consume(token.LPAREN, "expect '(' after 'for'")

	switch {
	case c.parser.match(token.SEMI):
		// no initializer
	case c.parser.match(token.LET):
		c.letDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.currentChunk().Len()
	exitJump := -1
	if !c.parser.match(token.SEMI) {
		c.expression()
		c.parser.consume(token.SEMI, "expect ';' after loop condition")
		exitJump = c.emitJump(OP_JUMP_IF_FALSE)
		c.emit(OP_POP, c.parser.previous.Line)
	}

	if !c.parser.check(token.RPAREN) {
		bodyJump := c.emitJump(OP_JUMP)
		incrementStart := c.currentChunk().Len()
		c.expression()
		c.emit(OP_POP, c.parser.previous.Line)
		c.parser.consume(token.RPAREN, "expect ')' after for clauses")
		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	} else {
		c.parser.consume(token.RPAREN, "expect ')' after for clauses")
	}

	c.loopStack = append(c.loopStack, loopContext{loopStart: loopStart})
	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emit(OP_POP, c.parser.previous.Line)
	}

	c.patchLoopBreaks()
	c.endScope()
}

func (c *Compiler) patchLoopBreaks() {
	n := len(c.loopStack)
	loop := c.loopStack[n-1]
	c.loopStack = c.loopStack[:n-1]
	for _, j := range loop.breakJumps {
		c.patchJump(j)
	}
}

func (c *Compiler) breakStatement() {
	if len(c.loopStack) == 0 {
		c.parser.error("can't use 'break' outside of a loop")
		return
	}
	c.parser.consume(token.SEMI, "expect ';' after 'break'")
	j := c.emitJump(OP_JUMP)
	n := len(c.loopStack)
	c.loopStack[n-1].breakJumps = append(c.loopStack[n-1].breakJumps, j)
}

func (c *Compiler) continueStatement() {
	if len(c.loopStack) == 0 {
		c.parser.error("can't use 'continue' outside of a loop")
		return
	}
	c.parser.consume(token.SEMI, "expect ';' after 'continue'")
	loop := c.loopStack[len(c.loopStack)-1]
	c.emitLoop(loop.loopStart)
}

// switchStatement implements the duplicated-scrutinee comparison chain
// exactly as described in spec §4.2 ("switch").
func (c *Compiler) switchStatement() {
	c.parser.consume(token.LPAREN, "expect '(' after 'switch'")
	c.expression()
	c.parser.consume(token.RPAREN, "expect ')' after switch expression")
	c.parser.consume(token.LBRACE, "expect '{' before switch body")

	var exitJumps []int
	for c.parser.match(token.CASE) {
		line := c.parser.previous.Line
		c.emit(OP_DUP, line)
		c.expression()
		c.emit(OP_EQUAL, line)
		c.parser.consume(token.COLON, "expect ':' after case expression")

		skip := c.emitJump(OP_JUMP_IF_FALSE)
		c.emit(OP_POP, line) // pop comparison result
		c.emit(OP_POP, line) // pop scrutinee on match
		for !c.parser.check(token.CASE) && !c.parser.check(token.DEFAULT) && !c.parser.check(token.RBRACE) {
			c.statement()
		}
		exitJumps = append(exitJumps, c.emitJump(OP_JUMP))
		c.patchJump(skip)
		c.emit(OP_POP, line) // pop comparison result on fall-through
	}

	if c.parser.match(token.DEFAULT) {
		c.parser.consume(token.COLON, "expect ':' after 'default'")
		c.emit(OP_POP, c.parser.previous.Line) // pop scrutinee
		for !c.parser.check(token.RBRACE) {
			c.statement()
		}
	} else {
		c.emit(OP_POP, c.parser.previous.Line) // no default: pop scrutinee
	}

	c.parser.consume(token.RBRACE, "expect '}' after switch body")
	for _, j := range exitJumps {
		c.patchJump(j)
	}
}

func (c *Compiler) returnStatement() {
	line := c.parser.previous.Line
	if c.funcType == TypeScript {
		c.parser.error("can't return from top-level code")
	}
	if c.parser.match(token.SEMI) {
		c.emitReturn()
		return
	}
	if c.funcType == TypeInitializer {
		c.parser.error("can't return a value from an initializer")
	}
	c.expression()
	c.parser.consume(token.SEMI, "expect ';' after return value")
	c.emit(OP_RETURN, line)
}

// funDeclaration parses `fun name(params) { body }` as a named global/
// local bound to a OP_CLOSURE value (spec §4.2).
func (c *Compiler) funDeclaration() {
	global := c.parseVariable("expect function name")
	c.markInitialized()
	c.function_(TypeFunction)
	c.defineVariable(global)
}

// function_ compiles a nested function or method body into its own
// Compiler, then emits OP_CLOSURE plus its upvalue capture descriptors
// (spec §4.2 "CLOSURE k").
func (c *Compiler) function_(ft FunctionType) {
	sub := &Compiler{parser: c.parser, funcType: ft, enclosing: c}
	sub.function = c.parser.vm.newFunction()
	name := c.parser.previous.Lexeme
	sub.function.Name = c.parser.vm.internString(name)

	if ft == TypeMethod || ft == TypeInitializer {
		sub.addLocal("this")
	} else {
		sub.addLocal("")
	}
	sub.locals[0].Depth = 0
	sub.beginScope()

	c.parser.vm.compilingFuncs = append(c.parser.vm.compilingFuncs, sub.function)

	c.parser.consume(token.LPAREN, "expect '(' after function name")
	if !c.parser.check(token.RPAREN) {
		for {
			sub.function.Arity++
			if sub.function.Arity > 255 {
				c.parser.errorAtCurrent("can't have more than 255 parameters")
			}
			paramConst := sub.parseVariable("expect parameter name")
			sub.defineVariable(paramConst)
			if !c.parser.match(token.COMMA) {
				break
			}
		}
	}
	c.parser.consume(token.RPAREN, "expect ')' after parameters")
	c.parser.consume(token.LBRACE, "expect '{' before function body")
	sub.block()

	fn := sub.endCompiler()
	fn.UpvalueCount = sub.upvalueCount

	c.parser.vm.compilingFuncs = c.parser.vm.compilingFuncs[:len(c.parser.vm.compilingFuncs)-1]

	idx, err := c.currentChunk().AddConstant(ObjVal(fn))
	if err != nil {
		c.parser.error(err.Error())
		return
	}
	line := c.parser.previous.Line
	c.emitByteOperand(OP_CLOSURE, idx)
	for i := 0; i < sub.upvalueCount; i++ {
		isLocal := byte(0)
		if sub.upvalues[i].IsLocal {
			isLocal = 1
		}
		c.emitByte(isLocal, line)
		c.emitByte(sub.upvalues[i].Index, line)
	}
}

// classDeclaration compiles `class Name (< Super)? { method* }` exactly
// per spec §4.2 "Classes".
func (c *Compiler) classDeclaration() {
	c.parser.consume(token.IDENT, "expect class name")
	name := c.parser.previous.Lexeme
	line := c.parser.previous.Line
	nameConst := c.identifierConstant(name)
	c.declareVariable(name)

	c.emitByteOperand(OP_CLASS, nameConst)
	c.defineVariable(nameConst)

	cc := &classCompiler{enclosing: c.currentClass}
	c.currentClass = cc

	if c.parser.match(token.LESS) {
		c.parser.consume(token.IDENT, "expect superclass name")
		c.variable(false)
		if c.parser.previous.Lexeme == name {
			c.parser.error("a class can't inherit from itself")
		}

		c.beginScope()
		c.addLocal("super")
		c.markInitialized()

		c.namedVariable(name, false)
		c.emit(OP_INHERIT, line)
		cc.hasSuperclass = true
	}

	c.namedVariable(name, false)
	c.parser.consume(token.LBRACE, "expect '{' before class body")
	for !c.parser.check(token.RBRACE) && !c.parser.check(token.EOF) {
		c.method()
	}
	c.parser.consume(token.RBRACE, "expect '}' after class body")
	c.emit(OP_POP, c.parser.previous.Line)

	if cc.hasSuperclass {
		c.endScope()
	}
	c.currentClass = c.currentClass.enclosing
}

func (c *Compiler) method() {
	c.parser.consume(token.IDENT, "expect method name")
	name := c.parser.previous.Lexeme
	nameConst := c.identifierConstant(name)

	ft := TypeMethod
	if name == "init" {
		ft = TypeInitializer
	}
	c.function_(ft)
	c.emitByteOperand(OP_METHOD, nameConst)
}
