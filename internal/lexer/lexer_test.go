package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlang/lumen/internal/token"
)

func TestNextTokenCoversOperatorsAndKeywords(t *testing.T) {
	input := `let x = 1 + 2 * (3 - 4) / 5 % 6;
fun add(a, b) { return a + b; }
class Foo < Bar {}
if (x == 1 and x != 2) { x = x + 1; } else { x = x - 1; }
"hello world" true false nil
x += 1; x -= 1; x++; x--;`

	want := []token.Type{
		token.LET, token.IDENT, token.EQUAL, token.NUMBER, token.PLUS, token.NUMBER,
		token.STAR, token.LPAREN, token.NUMBER, token.MINUS, token.NUMBER, token.RPAREN,
		token.SLASH, token.NUMBER, token.PERCENT, token.NUMBER, token.SEMI,

		token.FUN, token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.LBRACE, token.RETURN, token.IDENT, token.PLUS, token.IDENT, token.SEMI, token.RBRACE,

		token.CLASS, token.IDENT, token.LESS, token.IDENT, token.LBRACE, token.RBRACE,

		token.IF, token.LPAREN, token.IDENT, token.EQUAL_EQ, token.NUMBER,
		token.AND, token.IDENT, token.BANG_EQ, token.NUMBER, token.RPAREN,
		token.LBRACE, token.IDENT, token.EQUAL, token.IDENT, token.PLUS, token.NUMBER, token.SEMI, token.RBRACE,
		token.ELSE,
		token.LBRACE, token.IDENT, token.EQUAL, token.IDENT, token.MINUS, token.NUMBER, token.SEMI, token.RBRACE,

		token.STRING, token.TRUE, token.FALSE, token.NIL,

		token.IDENT, token.PLUS_EQ, token.NUMBER, token.SEMI,
		token.IDENT, token.MINUS_EQ, token.NUMBER, token.SEMI,
		token.IDENT, token.PLUS_PLUS, token.SEMI,
		token.IDENT, token.MINUS_MINUS, token.SEMI,

		token.EOF,
	}

	l := New(input)
	for i, wantType := range want {
		tok := l.NextToken()
		assert.Equalf(t, wantType, tok.Type, "token %d (%q)", i, tok.Lexeme)
	}
}

func TestNextTokenTracksLineNumbers(t *testing.T) {
	l := New("let x = 1;\nlet y = 2;")
	var firstLine, secondLine int
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Lexeme == "x" {
			firstLine = tok.Line
		}
		if tok.Lexeme == "y" {
			secondLine = tok.Line
		}
	}
	assert.Equal(t, 1, firstLine)
	assert.Equal(t, 2, secondLine)
}

func TestIllegalTokenCarriesDiagnosticText(t *testing.T) {
	l := New("let x = 1 @ 2;")
	var sawIllegal bool
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.ILLEGAL {
			sawIllegal = true
			assert.NotEmpty(t, tok.Lexeme, "expected ILLEGAL token to carry the offending lexeme")
		}
	}
	require.True(t, sawIllegal, "expected an ILLEGAL token for '@'")
}
