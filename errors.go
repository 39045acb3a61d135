package main

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned by the parser when the token stream ends
// while a token is still required.
var ErrUnexpectedEOF = errors.New("unexpected end of file")

// SyntaxError is a grammar or declaration violation found while parsing.
type SyntaxError struct {
	Line int // 0 when unknown
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// GenerateError is raised while translating a parsed program.
type GenerateError struct {
	Line int
	Msg  string
}

func (e *GenerateError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func syntaxErrorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Line: tok.Line, Msg: fmt.Sprintf(format, args...)}
}

func generateErrorf(node Node, format string, args ...any) error {
	return &GenerateError{Line: node.Pos(), Msg: fmt.Sprintf(format, args...)}
}
