package vm

import (
	"fmt"
	"os"

	"github.com/lumenlang/lumen/internal/lexer"
	"github.com/lumenlang/lumen/internal/token"
)

// FunctionType distinguishes the kind of Function a Compiler is building,
// which governs how slot 0 and `return` behave (spec §4.2).
type FunctionType int

const (
	TypeScript FunctionType = iota
	TypeFunction
	TypeMethod
	TypeInitializer
)

// Local is one compile-time local-variable slot (spec "Compiler state").
type Local struct {
	Name       string
	Depth      int
	Captured   bool
}

// UpvalueRef is a captured-variable descriptor recorded against the
// compiler building the closure that captures it (spec §4.2 "resolveUpvalue").
type UpvalueRef struct {
	Index   uint8
	IsLocal bool
}

// loopContext tracks a single loop's patch sites for break/continue (spec
// "Compiler state: loop context").
type loopContext struct {
	loopStart  int
	breakJumps []int
}

// classCompiler tracks nested class-compilation state so `this`/`super`
// can be validated (spec "Class compilation state").
type classCompiler struct {
	enclosing      *classCompiler
	hasSuperclass  bool
}

// Compiler is a single-pass Pratt compiler: there is no intermediate AST,
// every production emits bytecode directly as it is recognized (spec §4.2).
type Compiler struct {
	parser *Parser

	function *Function
	funcType FunctionType

	locals     [256]Local
	localCount int
	scopeDepth int

	upvalues     [256]UpvalueRef
	upvalueCount int

	enclosing *Compiler

	loopStack []loopContext

	currentClass *classCompiler
}

// Parser wraps the lexer with one token of lookahead and the sticky
// error-recovery flags shared by every Compiler in the enclosing chain
// (spec §4.2 "hadError"/"panicMode").
type Parser struct {
	lex *lexer.Lexer

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool

	vm *VM
}

// Compile parses and compiles a complete source file into the top-level
// script Function (spec §4.2 "compile(source) → Function | error").
func (vm *VM) Compile(source string) (*Function, error) {
	p := &Parser{lex: lexer.New(source), vm: vm}
	c := &Compiler{parser: p, funcType: TypeScript}
	c.function = vm.newFunction()
	vm.compilingFuncs = append(vm.compilingFuncs, c.function)
	c.addLocal("")
	c.locals[0].Depth = 0

	p.advance()
	for !p.match(token.EOF) {
		c.declaration()
	}
	p.consume(token.EOF, "expect end of expression")

	fn := c.endCompiler()
	vm.compilingFuncs = vm.compilingFuncs[:len(vm.compilingFuncs)-1]
	if p.hadError {
		return nil, fmt.Errorf("compile error")
	}
	return fn, nil
}

func (c *Compiler) endCompiler() *Function {
	c.emitReturn()
	return c.function
}

// ---- token stream helpers ----------------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Type != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(t token.Type) bool { return p.current.Type == t }

func (p *Parser) match(t token.Type) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t token.Type, msg string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *Parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *Parser) errorAt(t token.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	lexeme := t.Lexeme
	if t.Type == token.EOF {
		lexeme = "end"
	}
	fmt.Fprintf(os.Stderr, "[line %d] Error at '%s': %s\n", t.Line, lexeme, msg)
}

// synchronize discards tokens until a likely statement boundary, so one
// error does not cascade into spurious follow-on errors (spec §4.2).
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Type != token.EOF {
		if p.previous.Type == token.SEMI {
			return
		}
		switch p.current.Type {
		case token.CLASS, token.FUN, token.LET, token.FOR, token.IF, token.WHILE, token.DUMP, token.RETURN:
			return
		}
		p.advance()
	}
}
