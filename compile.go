package main

import "fmt"

// Unit is everything produced while compiling one source text.
type Unit struct {
	Tokens      []Token
	Program     []Stmt
	Identifiers *Identifiers
	Stacks      map[string]int // storage index per declared stack
	Binaries    map[string]int // storage index per declared binary
	Target      string
}

// CompileUnit lexes, parses and translates source. The first error aborts
// the compilation and no partial Unit is returned.
func CompileUnit(source string) (*Unit, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	program, idents, err := ParseProgram(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	translator := NewTranslator(idents)
	target, _, err := translator.Generate(program, nil)
	if err != nil {
		return nil, fmt.Errorf("translation error: %w", err)
	}

	return &Unit{
		Tokens:      tokens,
		Program:     program,
		Identifiers: idents,
		Stacks:      translator.stacks,
		Binaries:    translator.binaries,
		Target:      target,
	}, nil
}

// Compile returns the target text for source.
func Compile(source string) (string, error) {
	unit, err := CompileUnit(source)
	if err != nil {
		return "", err
	}
	return unit.Target, nil
}
