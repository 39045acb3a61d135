package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexKeywords(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"stack", STACK_DECLARE},
		{"binary", BINARY_DECLARE},
		{"func", FUNC_DECLARE},
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"break", BREAK},
		{"print", PRINT},
		{"println", PRINTLN},
		{"not", OPERATOR_NOT},
		{"output", OUTPUT_CALL},
		{"true", BOOLEAN_LITERAL},
		{"False", BOOLEAN_LITERAL},
		{"TRUE", BOOLEAN_LITERAL},
		{"0", BOOLEAN_LITERAL},
		{"1", BOOLEAN_LITERAL},
		{"input()", INPUT_CALL},
		{"current", IDENTIFIER},
		{"stacks", IDENTIFIER},
		{"_tmp2", IDENTIFIER},
	}

	for _, tt := range tests {
		tokens, err := Lex(tt.input)
		be.Err(t, err, nil)
		be.Equal(t, len(tokens), 1)
		be.Equal(t, tokens[0].Type, tt.typ)
		be.Equal(t, tokens[0].Lexeme, tt.input)
	}
}

func TestLexDelimiters(t *testing.T) {
	tokens, err := Lex("; = ( ) { } .pop() .push")
	be.Err(t, err, nil)
	be.Equal(t, tokenTypes(tokens), []TokenType{
		SEMICOLON, ASSIGN, LPAREN, RPAREN, LBRACE, RBRACE, POP, PUSH,
	})
}

func TestLexStatement(t *testing.T) {
	tokens, err := Lex("s.push(not b);")
	be.Err(t, err, nil)
	be.Equal(t, tokenTypes(tokens), []TokenType{
		IDENTIFIER, PUSH, LPAREN, OPERATOR_NOT, IDENTIFIER, RPAREN, SEMICOLON,
	})
	be.Equal(t, tokens[0].Lexeme, "s")
	be.Equal(t, tokens[1].Lexeme, ".push")
}

func TestLexPop(t *testing.T) {
	tokens, err := Lex("b = s.pop();")
	be.Err(t, err, nil)
	be.Equal(t, tokenTypes(tokens), []TokenType{
		IDENTIFIER, ASSIGN, IDENTIFIER, POP, SEMICOLON,
	})
	be.Equal(t, tokens[3].Lexeme, ".pop()")
}

func TestLexExpressionFlag(t *testing.T) {
	tokens, err := Lex(`stack s; s.pop() not input() true "x" ( ) x output print`)
	be.Err(t, err, nil)

	want := map[TokenType]bool{
		STACK_DECLARE:   false,
		SEMICOLON:       false,
		IDENTIFIER:      true,
		POP:             true,
		OPERATOR_NOT:    true,
		INPUT_CALL:      true,
		BOOLEAN_LITERAL: true,
		STRING_LITERAL:  true,
		LPAREN:          true,
		RPAREN:          true,
		OUTPUT_CALL:     false,
		PRINT:           false,
	}
	for _, tok := range tokens {
		be.Equal(t, tok.Expr, want[tok.Type])
		be.Equal(t, tok.Expr, tok.Type.IsExpression())
	}
}

func TestLexInputWithoutParens(t *testing.T) {
	tokens, err := Lex("input")
	be.Err(t, err, nil)
	be.Equal(t, tokens[0].Type, IDENTIFIER)

	tokens, err = Lex("input ()")
	be.Err(t, err, nil)
	be.Equal(t, tokenTypes(tokens), []TokenType{IDENTIFIER, LPAREN, RPAREN})
}

func TestLexPushNeedsWordBoundary(t *testing.T) {
	_, err := Lex("s.pushed")
	be.True(t, err != nil)
}

func TestLexStringLiteral(t *testing.T) {
	tokens, err := Lex(`print("a \"b\" \\ c");`)
	be.Err(t, err, nil)
	be.Equal(t, tokens[2].Type, STRING_LITERAL)
	be.Equal(t, tokens[2].Lexeme, `"a \"b\" \\ c"`)
	be.Equal(t, tokens[3].Type, RPAREN)
}

func TestLexLineNumbers(t *testing.T) {
	tokens, err := Lex("stack s;\n\n// note\nbinary b;\r\n  output(b);")
	be.Err(t, err, nil)
	be.Equal(t, tokens[0].Line, 1)
	be.Equal(t, tokens[3].Line, 4) // binary
	be.Equal(t, tokens[6].Line, 5) // output
}

func TestLexComments(t *testing.T) {
	tokens, err := Lex("// only a comment")
	be.Err(t, err, nil)
	be.Equal(t, len(tokens), 0)

	tokens, err = Lex("break; // trailing\nbreak;")
	be.Err(t, err, nil)
	be.Equal(t, len(tokens), 4)
}

func TestLexEmpty(t *testing.T) {
	tokens, err := Lex("  \n\t ")
	be.Err(t, err, nil)
	be.Equal(t, len(tokens), 0)
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		line  int
		msg   string
	}{
		{"binary b = 2;", 1, `invalid number "2", only 0 and 1 are allowed`},
		{"\n10", 2, `invalid number "10"`},
		{"a & b", 1, `unexpected "& b"`},
		{"s.peek()", 1, `unexpected ".peek()"`},
		{`print("open`, 1, "unterminated string literal"},
		{"print(\"a\nb\");", 1, "newline in string literal"},
		{"/ x", 1, `unexpected "/ x"`},
	}

	for _, tt := range tests {
		_, err := Lex(tt.input)
		var lexErr *LexError
		be.True(t, errors.As(err, &lexErr))
		be.Equal(t, lexErr.Line, tt.line)
		be.True(t, strings.Contains(lexErr.Msg, tt.msg))
	}
}

func TestNextTokenStream(t *testing.T) {
	l := NewLexer([]byte("break;"))

	tok, ok, err := l.NextToken()
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, tok.Type, BREAK)

	tok, ok, err = l.NextToken()
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, tok.Type, SEMICOLON)

	_, ok, err = l.NextToken()
	be.Err(t, err, nil)
	be.True(t, !ok)
}

func TestTokenString(t *testing.T) {
	tok := Token{Type: IDENTIFIER, Lexeme: "b", Expr: true, Line: 3}
	s := tok.String()
	be.True(t, strings.Contains(s, "IDENTIFIER"))
	be.True(t, strings.Contains(s, `"b"`))
	be.True(t, strings.Contains(s, "line 3"))
}
