package main

import (
	"fmt"
	"strconv"
)

// Parser consumes the token slice produced by the Lexer, builds the AST and
// records every declaration in its identifier table.
//
// Grammar:
//
//	program     = statement* EOF
//	statement   = "break" ";"
//	            | ("print" | "println") "(" STRING ")" ";"
//	            | "stack" IDENT ";"
//	            | "binary" IDENT ("=" expression)? ";"
//	            | "func" IDENT "(" ")" block
//	            | "func" IDENT block ";"
//	            | "if" "(" expression ")" block ("else" block)? ";"
//	            | "while" "(" expression ")" block
//	            | "output" "(" expression ")" ";"
//	            | IDENT ".push" "(" expression ")" ";"
//	            | IDENT "=" expression ";"
//	            | IDENT "(" ")" ";"
//	block       = "{" statement* "}"
//	expression  = "not"? primary
//	primary     = "input()" | BOOLEAN | IDENT ".pop()"? | "(" expression ")"
type Parser struct {
	tokens []Token
	pos    int
	idents *Identifiers

	// calls to names not yet declared as functions, resolved once the
	// whole unit has been read
	pendingCalls []Token
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, idents: NewIdentifiers()}
}

// ParseProgram parses a whole compilation unit. The first error aborts the
// parse; there is no recovery.
func ParseProgram(tokens []Token) ([]Stmt, *Identifiers, error) {
	p := NewParser(tokens)
	stmts, err := p.ParseProgram()
	if err != nil {
		return nil, nil, err
	}
	return stmts, p.idents, nil
}

// ParseProgram restarts from the first token with a fresh identifier table.
//
// A function may be called above its declaration; whether the call comes
// after the definition is checked during translation. A call to a name that
// is never declared as a function fails here.
func (p *Parser) ParseProgram() ([]Stmt, error) {
	p.pos = 0
	p.idents = NewIdentifiers()
	p.pendingCalls = nil

	var stmts []Stmt
	for p.pos < len(p.tokens) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	for _, tok := range p.pendingCalls {
		if err := p.check(tok, tok.Lexeme, NamespaceFunction); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

// Identifiers returns the table filled by the last parse.
func (p *Parser) Identifiers() *Identifiers {
	return p.idents
}

func (p *Parser) eofError() error {
	if len(p.tokens) == 0 {
		return fmt.Errorf("%w in position %d", ErrUnexpectedEOF, p.pos)
	}
	return fmt.Errorf("line %d: %w in position %d", p.tokens[len(p.tokens)-1].Line, ErrUnexpectedEOF, p.pos)
}

// peekAt returns the token offset tokens ahead of the current one.
func (p *Parser) peekAt(offset int) (Token, error) {
	if p.pos+offset < len(p.tokens) {
		return p.tokens[p.pos+offset], nil
	}
	return Token{}, p.eofError()
}

func (p *Parser) peek() (Token, error) {
	return p.peekAt(0)
}

// peekIs reports whether the current token exists and has type tt.
func (p *Parser) peekIs(tt TokenType) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].Type == tt
}

func (p *Parser) advance() (Token, error) {
	tok, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.pos++
	return tok, nil
}

// expect consumes the current token if it has type tt.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	if tok.Type != tt {
		return Token{}, syntaxErrorf(tok, "expected token %s, got %s", tt, tok.Type)
	}
	p.pos++
	return tok, nil
}

// expectAll consumes a fixed run of punctuation.
func (p *Parser) expectAll(types ...TokenType) error {
	for _, tt := range types {
		if _, err := p.expect(tt); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) declare(tok Token, name string, ns Namespace) error {
	if err := p.idents.Declare(name, ns); err != nil {
		return syntaxErrorf(tok, "%v", err)
	}
	return nil
}

func (p *Parser) check(tok Token, name string, ns Namespace) error {
	if err := p.idents.Check(name, ns); err != nil {
		return syntaxErrorf(tok, "%v", err)
	}
	return nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Expr && tok.Type != IDENTIFIER {
		return nil, syntaxErrorf(tok, "expression %s %q cannot start a statement", tok.Type, tok.Lexeme)
	}

	switch tok.Type {
	case BREAK:
		p.pos++
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &BreakLoop{Line: tok.Line}, nil

	case PRINT, PRINTLN:
		return p.parsePrint()

	case STACK_DECLARE:
		p.pos++
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if err := p.declare(tok, nameTok.Lexeme, NamespaceStack); err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &StackDeclaration{Name: nameTok.Lexeme, Line: tok.Line}, nil

	case BINARY_DECLARE:
		return p.parseBinaryDeclaration()

	case FUNC_DECLARE:
		return p.parseFunction()

	case IF:
		return p.parseIf()

	case WHILE:
		p.pos++
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &WhileLoop{Cond: cond, Body: body, Line: tok.Line}, nil

	case OUTPUT_CALL:
		p.pos++
		value, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &Output{Value: value, Line: tok.Line}, nil

	case IDENTIFIER:
		next, err := p.peekAt(1)
		if err != nil {
			return nil, err
		}
		switch next.Type {
		case PUSH:
			return p.parsePush()
		case ASSIGN:
			return p.parseAssignment()
		case LPAREN:
			return p.parseFunctionCall()
		}
		return nil, syntaxErrorf(next, "unexpected %s after identifier %s", next.Type, tok.Lexeme)
	}

	return nil, syntaxErrorf(tok, "unexpected statement %s", tok.Type)
}

// parseCondition parses "(" expression ")".
func (p *Parser) parseCondition() (Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == RBRACE {
			p.pos++
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parsePrint() (Stmt, error) {
	tok, _ := p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	strTok, err := p.expect(STRING_LITERAL)
	if err != nil {
		return nil, err
	}
	text, err := strconv.Unquote(strTok.Lexeme)
	if err != nil {
		return nil, syntaxErrorf(strTok, "invalid string literal %s", strTok.Lexeme)
	}
	if err := p.expectAll(RPAREN, SEMICOLON); err != nil {
		return nil, err
	}
	return &PrintStatement{Text: text, Newline: tok.Type == PRINTLN, Line: tok.Line}, nil
}

func (p *Parser) parseBinaryDeclaration() (Stmt, error) {
	tok, _ := p.advance()
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if err := p.declare(tok, nameTok.Lexeme, NamespaceBinary); err != nil {
		return nil, err
	}

	var value Expr = &Identifier{Name: Current, Line: tok.Line}
	if p.peekIs(ASSIGN) {
		p.pos++
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &BinaryDeclaration{Name: nameTok.Lexeme, Value: value, Line: tok.Line}, nil
}

func (p *Parser) parseFunction() (Stmt, error) {
	tok, _ := p.advance()
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	name := nameTok.Lexeme
	if err := p.declare(tok, name, NamespaceFunction); err != nil {
		return nil, err
	}

	if p.peekIs(LPAREN) {
		p.pos++
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &FunctionDefinitionAndCall{Name: name, Body: body, Line: tok.Line}, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &FunctionDefinition{Name: name, Body: body, Line: tok.Line}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	tok, _ := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els []Stmt
	if p.peekIs(ELSE) {
		p.pos++
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &IfStatement{Cond: cond, Then: then, Else: els, Line: tok.Line}, nil
}

func (p *Parser) parsePush() (Stmt, error) {
	tok, _ := p.advance()
	if err := p.check(tok, tok.Lexeme, NamespaceStack); err != nil {
		return nil, err
	}
	if _, err := p.expect(PUSH); err != nil {
		return nil, err
	}
	value, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &PushOperation{Stack: tok.Lexeme, Value: value, Line: tok.Line}, nil
}

func (p *Parser) parseAssignment() (Stmt, error) {
	tok, _ := p.advance()
	if err := p.check(tok, tok.Lexeme, NamespaceBinary); err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Assignment{Target: tok.Lexeme, Value: value, Line: tok.Line}, nil
}

func (p *Parser) parseFunctionCall() (Stmt, error) {
	tok, _ := p.advance()
	if tok.Lexeme == Current {
		if err := p.check(tok, tok.Lexeme, NamespaceFunction); err != nil {
			return nil, err
		}
	} else if !p.idents.Has(tok.Lexeme, NamespaceFunction) {
		p.pendingCalls = append(p.pendingCalls, tok)
	}
	if err := p.expectAll(LPAREN, RPAREN, SEMICOLON); err != nil {
		return nil, err
	}
	return &FunctionCall{Name: tok.Lexeme, Line: tok.Line}, nil
}

// ParseExpression parses a single expression against the parser's current
// identifier table.
func (p *Parser) ParseExpression() (Expr, error) {
	return p.parseExpression()
}

func (p *Parser) parseExpression() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == OPERATOR_NOT {
		p.pos++
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &NotOp{Operand: operand, Line: tok.Line}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case INPUT_CALL:
		p.pos++
		return &Input{Line: tok.Line}, nil

	case BOOLEAN_LITERAL:
		p.pos++
		value := tok.Lexeme == "true" || tok.Lexeme == "True" || tok.Lexeme == "TRUE" || tok.Lexeme == "1"
		return &BooleanLiteral{Value: value, Line: tok.Line}, nil

	case IDENTIFIER:
		p.pos++
		if p.peekIs(POP) {
			p.pos++
			if err := p.check(tok, tok.Lexeme, NamespaceStack); err != nil {
				return nil, err
			}
			return &PopOperation{Stack: tok.Lexeme, Line: tok.Line}, nil
		}
		if err := p.check(tok, tok.Lexeme, NamespaceBinary); err != nil {
			return nil, err
		}
		return &Identifier{Name: tok.Lexeme, Line: tok.Line}, nil

	case LPAREN:
		p.pos++
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, syntaxErrorf(tok, "unexpected token in expression: %s", tok.Type)
}
