package main

import "fmt"

// TokenType is the category of a token.
type TokenType string

const (
	STACK_DECLARE  TokenType = "STACK_DECLARE"
	BINARY_DECLARE TokenType = "BINARY_DECLARE"
	FUNC_DECLARE   TokenType = "FUNC_DECLARE"
	IF             TokenType = "IF"
	ELSE           TokenType = "ELSE"
	WHILE          TokenType = "WHILE"
	BREAK          TokenType = "BREAK"
	PRINT          TokenType = "PRINT"
	PRINTLN        TokenType = "PRINTLN"

	POP       TokenType = "POP"  // .pop()
	PUSH      TokenType = "PUSH" // .push
	ASSIGN    TokenType = "ASSIGN"
	SEMICOLON TokenType = "SEMICOLON"
	LPAREN    TokenType = "LPAREN"
	RPAREN    TokenType = "RPAREN"
	LBRACE    TokenType = "LBRACE"
	RBRACE    TokenType = "RBRACE"

	BOOLEAN_LITERAL TokenType = "BOOLEAN_LITERAL"
	OPERATOR_NOT    TokenType = "OPERATOR_NOT"
	INPUT_CALL      TokenType = "INPUT_CALL" // input()
	OUTPUT_CALL     TokenType = "OUTPUT_CALL"
	STRING_LITERAL  TokenType = "STRING_LITERAL"
	IDENTIFIER      TokenType = "IDENTIFIER"
)

// keywords maps reserved words to their token type. Anything else that
// looks like a word is an IDENTIFIER.
var keywords = map[string]TokenType{
	"stack":   STACK_DECLARE,
	"binary":  BINARY_DECLARE,
	"func":    FUNC_DECLARE,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"break":   BREAK,
	"print":   PRINT,
	"println": PRINTLN,
	"not":     OPERATOR_NOT,
	"output":  OUTPUT_CALL,
	"true":    BOOLEAN_LITERAL,
	"false":   BOOLEAN_LITERAL,
	"True":    BOOLEAN_LITERAL,
	"False":   BOOLEAN_LITERAL,
	"TRUE":    BOOLEAN_LITERAL,
	"FALSE":   BOOLEAN_LITERAL,
}

// IsExpression reports whether tokens of this type can appear inside an
// expression.
func (tt TokenType) IsExpression() bool {
	switch tt {
	case POP, LPAREN, RPAREN, BOOLEAN_LITERAL, OPERATOR_NOT, INPUT_CALL, STRING_LITERAL, IDENTIFIER:
		return true
	default:
		return false
	}
}

// Token is a single lexical unit.
type Token struct {
	Type   TokenType
	Lexeme string // exact source text
	Expr   bool   // Type.IsExpression(), cached
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-15s %-12q line %d", t.Type, t.Lexeme, t.Line)
}

// LexError reports source text that does not form a token.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Lexer scans Brainknot source into tokens.
type Lexer struct {
	input []byte
	pos   int
	line  int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Lex scans the whole source.
func Lex(source string) ([]Token, error) {
	l := NewLexer([]byte(source))
	var tokens []Token
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// NextToken scans the next token. ok is false at end of input.
func (l *Lexer) NextToken() (tok Token, ok bool, err error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{}, false, nil
	}

	start := l.pos
	line := l.line
	c := l.input[l.pos]

	var tt TokenType
	if c == '/' && l.at(1) == '/' {
		l.skipLineComment()
		return l.NextToken()
	} else if c == ';' {
		tt = SEMICOLON
		l.pos++
	} else if c == '=' {
		tt = ASSIGN
		l.pos++
	} else if c == '(' {
		tt = LPAREN
		l.pos++
	} else if c == ')' {
		tt = RPAREN
		l.pos++
	} else if c == '{' {
		tt = LBRACE
		l.pos++
	} else if c == '}' {
		tt = RBRACE
		l.pos++
	} else if c == '.' {
		if l.hasPrefix(".pop()") {
			tt = POP
			l.pos += len(".pop()")
		} else if l.hasPrefix(".push") && !isLetterOrDigit(l.at(len(".push"))) {
			tt = PUSH
			l.pos += len(".push")
		} else {
			return Token{}, false, &LexError{Line: line, Msg: fmt.Sprintf("unexpected %q", l.snippet())}
		}
	} else if c == '"' {
		if err := l.readString(); err != nil {
			return Token{}, false, err
		}
		tt = STRING_LITERAL
	} else if isLetter(c) {
		word := l.readIdentifier()
		if kw, isKeyword := keywords[word]; isKeyword {
			tt = kw
		} else if word == "input" && l.hasPrefix("()") {
			l.pos += len("()")
			tt = INPUT_CALL
		} else {
			tt = IDENTIFIER
		}
	} else if isDigit(c) {
		digits := l.readNumber()
		if digits != "0" && digits != "1" {
			return Token{}, false, &LexError{Line: line, Msg: fmt.Sprintf("invalid number %q, only 0 and 1 are allowed", digits)}
		}
		tt = BOOLEAN_LITERAL
	} else {
		return Token{}, false, &LexError{Line: line, Msg: fmt.Sprintf("unexpected %q", l.snippet())}
	}

	return Token{
		Type:   tt,
		Lexeme: string(l.input[start:l.pos]),
		Expr:   tt.IsExpression(),
		Line:   line,
	}, true, nil
}

func (l *Lexer) at(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) hasPrefix(s string) bool {
	return len(l.input)-l.pos >= len(s) && string(l.input[l.pos:l.pos+len(s)]) == s
}

// snippet returns up to ten bytes of source at the current position, for
// error messages.
func (l *Lexer) snippet() string {
	end := l.pos + 10
	if end > len(l.input) {
		end = len(l.input)
	}
	return string(l.input[l.pos:end])
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\n' {
			l.line++
		} else if c != ' ' && c != '\t' && c != '\r' {
			return
		}
		l.pos++
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetterOrDigit(c byte) bool {
	return isLetter(c) || isDigit(c)
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.pos < len(l.input) && isLetterOrDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

// readString consumes a double-quoted literal, including both quotes.
// Escapes are left undecoded; the parser decodes them.
func (l *Lexer) readString() error {
	line := l.line
	l.pos++ // skip opening "
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '"':
			l.pos++
			return nil
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return &LexError{Line: line, Msg: "newline in string literal"}
		}
		l.pos++
	}
	return &LexError{Line: line, Msg: "unterminated string literal"}
}
