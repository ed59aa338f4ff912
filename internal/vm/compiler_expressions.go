package vm

import (
	"github.com/lumenlang/lumen/internal/token"
)

// precedence levels, ascending (spec §4.2 "Pratt table").
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LPAREN:      {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: precCall},
		token.LBRACKET:    {prefix: (*Compiler).arrayLiteral, infix: (*Compiler).index, precedence: precCall},
		token.LBRACE:      {prefix: (*Compiler).tableLiteral},
		token.DOT:         {infix: (*Compiler).dot, precedence: precCall},
		token.MINUS:       {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
		token.PLUS:        {infix: (*Compiler).binary, precedence: precTerm},
		token.SLASH:       {infix: (*Compiler).binary, precedence: precFactor},
		token.STAR:        {infix: (*Compiler).binary, precedence: precFactor},
		token.PERCENT:     {infix: (*Compiler).binary, precedence: precFactor},
		token.AMP:         {infix: (*Compiler).binary, precedence: precFactor},
		token.PIPE:        {infix: (*Compiler).binary, precedence: precFactor},
		token.CARET:       {infix: (*Compiler).binary, precedence: precFactor},
		token.BANG:        {prefix: (*Compiler).unary},
		token.BANG_EQ:     {infix: (*Compiler).binary, precedence: precEquality},
		token.EQUAL_EQ:    {infix: (*Compiler).binary, precedence: precEquality},
		token.GREATER:     {infix: (*Compiler).binary, precedence: precComparison},
		token.GREATER_EQ:  {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS:        {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS_EQ:     {infix: (*Compiler).binary, precedence: precComparison},
		token.IDENT:       {prefix: (*Compiler).variable},
		token.STRING:      {prefix: (*Compiler).stringLiteral},
		token.NUMBER:      {prefix: (*Compiler).number},
		token.AND:         {infix: (*Compiler).and_, precedence: precAnd},
		token.OR:          {infix: (*Compiler).or_, precedence: precOr},
		token.FALSE:       {prefix: (*Compiler).literal},
		token.TRUE:        {prefix: (*Compiler).literal},
		token.NIL:         {prefix: (*Compiler).literal},
		token.THIS:        {prefix: (*Compiler).this},
		token.SUPER:       {prefix: (*Compiler).super},
	}
}

func getRule(t token.Type) parseRule { return rules[t] }

// parsePrecedence implements the core Pratt loop (spec §4.2).
func (c *Compiler) parsePrecedence(p precedence) {
	c.parser.advance()
	prefix := getRule(c.parser.previous.Type).prefix
	if prefix == nil {
		c.parser.error("expect expression")
		return
	}
	canAssign := p <= precAssignment
	prefix(c, canAssign)

	for p <= getRule(c.parser.current.Type).precedence {
		c.parser.advance()
		infix := getRule(c.parser.previous.Type).infix
		infix(c, canAssign)
	}

	if canAssign && c.parser.match(token.EQUAL) {
		c.parser.error("invalid assignment target")
	}
}

func (c *Compiler) expression() { c.parsePrecedence(precAssignment) }

// ---- prefix rules ----------------------------------------------------------

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.parser.consume(token.RPAREN, "expect ')' after expression")
}

func (c *Compiler) number(canAssign bool) {
	n, _ := c.parser.previous.Literal.(float64)
	c.emitConstant(Number(n))
}

func (c *Compiler) stringLiteral(canAssign bool) {
	s, _ := c.parser.previous.Literal.(string)
	c.emitConstant(ObjVal(c.parser.vm.internString(s)))
}

func (c *Compiler) literal(canAssign bool) {
	line := c.parser.previous.Line
	switch c.parser.previous.Type {
	case token.FALSE:
		c.emit(OP_FALSE, line)
	case token.TRUE:
		c.emit(OP_TRUE, line)
	case token.NIL:
		c.emit(OP_NIL, line)
	}
}

func (c *Compiler) unary(canAssign bool) {
	op := c.parser.previous.Type
	line := c.parser.previous.Line
	c.parsePrecedence(precUnary)
	switch op {
	case token.MINUS:
		c.emit(OP_NEGATE, line)
	case token.BANG:
		c.emit(OP_NOT, line)
	}
}

func (c *Compiler) binary(canAssign bool) {
	op := c.parser.previous.Type
	line := c.parser.previous.Line
	rule := getRule(op)
	c.parsePrecedence(rule.precedence + 1)

	switch op {
	case token.PLUS:
		c.emit(OP_ADD, line)
	case token.MINUS:
		c.emit(OP_SUBTRACT, line)
	case token.STAR:
		c.emit(OP_MULTIPLY, line)
	case token.SLASH:
		c.emit(OP_DIVIDE, line)
	case token.PERCENT:
		c.emit(OP_MODULO, line)
	case token.AMP:
		c.emit(OP_BITWISE_AND, line)
	case token.PIPE:
		c.emit(OP_BITWISE_OR, line)
	case token.CARET:
		c.emit(OP_BITWISE_XOR, line)
	case token.EQUAL_EQ:
		c.emit(OP_EQUAL, line)
	case token.BANG_EQ:
		c.emit(OP_EQUAL, line)
		c.emit(OP_NOT, line)
	case token.GREATER:
		c.emit(OP_GREATER, line)
	case token.GREATER_EQ:
		c.emit(OP_LESS, line)
		c.emit(OP_NOT, line)
	case token.LESS:
		c.emit(OP_LESS, line)
	case token.LESS_EQ:
		c.emit(OP_GREATER, line)
		c.emit(OP_NOT, line)
	}
}

// and_/or_ implement short-circuiting via jump+pop sequences (spec §4.2).
func (c *Compiler) and_(canAssign bool) {
	endJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emit(OP_POP, c.parser.previous.Line)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(canAssign bool) {
	elseJump := c.emitJump(OP_JUMP_IF_FALSE)
	endJump := c.emitJump(OP_JUMP)
	c.patchJump(elseJump)
	c.emit(OP_POP, c.parser.previous.Line)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

// variable resolves an identifier through locals -> upvalues -> globals
// and compiles either a read or, when canAssign and a following `=`/
// compound-assign operator is present, a write (spec §4.2 "Assignment").
func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.parser.previous.Lexeme, canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp Opcode
	slot := c.resolveLocal(name)
	if slot != -1 {
		getOp, setOp = OP_GET_LOCAL, OP_SET_LOCAL
	} else if slot = c.resolveUpvalue(name); slot != -1 {
		getOp, setOp = OP_GET_UPVALUE, OP_SET_UPVALUE
	} else {
		slot = c.identifierConstant(name)
		getOp, setOp = OP_GET_GLOBAL, OP_SET_GLOBAL
	}

	if canAssign && c.parser.match(token.EQUAL) {
		c.expression()
		c.emitByteOperand(setOp, slot)
		return
	}
	if canAssign && c.matchCompoundAssign() {
		op := c.parser.previous.Type
		c.emitByteOperand(getOp, slot)
		c.expression()
		c.emitCompoundOp(op)
		c.emitByteOperand(setOp, slot)
		return
	}
	c.emitByteOperand(getOp, slot)
}

func (c *Compiler) matchCompoundAssign() bool {
	switch c.parser.current.Type {
	case token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ:
		c.parser.advance()
		return true
	}
	return false
}

func (c *Compiler) emitCompoundOp(op token.Type) {
	line := c.parser.previous.Line
	switch op {
	case token.PLUS_EQ:
		c.emit(OP_ADD, line)
	case token.MINUS_EQ:
		c.emit(OP_SUBTRACT, line)
	case token.STAR_EQ:
		c.emit(OP_MULTIPLY, line)
	case token.SLASH_EQ:
		c.emit(OP_DIVIDE, line)
	}
}

// this resolves the synthetic local bound at slot 0 of any method or
// initializer (spec §4.2 "Method function compilation").
func (c *Compiler) this(canAssign bool) {
	if c.currentClass == nil {
		c.parser.error("can't use 'this' outside of a class")
		return
	}
	c.namedVariable("this", false)
}

// super compiles `super.method` and, when immediately called, fuses to
// OP_SUPER_INVOKE (spec §4.2).
func (c *Compiler) super(canAssign bool) {
	if c.currentClass == nil {
		c.parser.error("can't use 'super' outside of a class")
	} else if !c.currentClass.hasSuperclass {
		c.parser.error("can't use 'super' in a class with no superclass")
	}
	c.parser.consume(token.DOT, "expect '.' after 'super'")
	c.parser.consume(token.IDENT, "expect superclass method name")
	name := c.identifierConstant(c.parser.previous.Lexeme)
	line := c.parser.previous.Line

	c.namedVariable("this", false)
	if c.parser.match(token.LPAREN) {
		argc := c.argumentList()
		c.namedVariable("super", false)
		c.emit(OP_SUPER_INVOKE, line)
		c.emitByte(byte(name), line)
		c.emitByte(byte(argc), line)
		return
	}
	c.namedVariable("super", false)
	c.emitByteOperand(OP_GET_SUPER, name)
}

// ---- call / property / index ----------------------------------------------------------

func (c *Compiler) call(canAssign bool) {
	line := c.parser.previous.Line
	argc := c.argumentList()
	c.emit(OP_CALL, line)
	c.emitByte(byte(argc), line)
}

func (c *Compiler) argumentList() int {
	argc := 0
	if !c.parser.check(token.RPAREN) {
		for {
			c.expression()
			if argc == 255 {
				c.parser.error("can't have more than 255 arguments")
			}
			argc++
			if !c.parser.match(token.COMMA) {
				break
			}
		}
	}
	c.parser.consume(token.RPAREN, "expect ')' after arguments")
	return argc
}

func (c *Compiler) dot(canAssign bool) {
	c.parser.consume(token.IDENT, "expect property name after '.'")
	name := c.identifierConstant(c.parser.previous.Lexeme)
	line := c.parser.previous.Line

	if canAssign && c.parser.match(token.EQUAL) {
		c.expression()
		c.emitByteOperand(OP_SET_PROPERTY, name)
		return
	}
	if c.parser.match(token.LPAREN) {
		argc := c.argumentList()
		c.emit(OP_INVOKE, line)
		c.emitByte(byte(name), line)
		c.emitByte(byte(argc), line)
		return
	}
	c.emitByteOperand(OP_GET_PROPERTY, name)
}

func (c *Compiler) index(canAssign bool) {
	c.expression()
	c.parser.consume(token.RBRACKET, "expect ']' after index")
	if canAssign && c.parser.match(token.EQUAL) {
		c.expression()
		c.emit(OP_SET_INDEX, c.parser.previous.Line)
		return
	}
	c.emit(OP_INDEX, c.parser.previous.Line)
}

// ---- aggregate literals ----------------------------------------------------------

func (c *Compiler) arrayLiteral(canAssign bool) {
	line := c.parser.previous.Line
	count := 0
	if !c.parser.check(token.RBRACKET) {
		for {
			c.expression()
			count++
			if !c.parser.match(token.COMMA) {
				break
			}
		}
	}
	c.parser.consume(token.RBRACKET, "expect ']' after array elements")
	if count > 255 {
		c.parser.error("too many array elements")
	}
	c.emit(OP_SET_ARRAY, line)
	c.emitByte(byte(count), line)
}

func (c *Compiler) tableLiteral(canAssign bool) {
	line := c.parser.previous.Line
	count := 0
	if !c.parser.check(token.RBRACE) {
		for {
			c.expression()
			c.parser.consume(token.COLON, "expect ':' after table key")
			c.expression()
			count++
			if !c.parser.match(token.COMMA) {
				break
			}
		}
	}
	c.parser.consume(token.RBRACE, "expect '}' after table entries")
	if count > 255 {
		c.parser.error("too many table entries")
	}
	c.emit(OP_SET_TABLE, line)
	c.emitByte(byte(count), line)
}
