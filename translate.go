package main

import (
	"bytes"
	"strconv"
)

// Registry lists the functions callable at the current point of
// generation, in definition order. It is threaded through generation by
// value: every method that adds a name returns a new Registry and leaves
// the receiver untouched.
type Registry []string

// Contains reports whether name is callable.
func (r Registry) Contains(name string) bool {
	for _, n := range r {
		if n == name {
			return true
		}
	}
	return false
}

// With returns a copy of r with name appended.
func (r Registry) With(name string) Registry {
	out := make(Registry, len(r), len(r)+1)
	copy(out, r)
	return append(out, name)
}

// Translator turns a parsed program into target text. Storage indices are
// fixed once from the identifier table.
type Translator struct {
	stacks   map[string]int
	binaries map[string]int
}

func NewTranslator(idents *Identifiers) *Translator {
	return &Translator{
		stacks:   idents.Indices(NamespaceStack),
		binaries: idents.Indices(NamespaceBinary),
	}
}

// StackIndex returns the storage index of a declared stack.
func (t *Translator) StackIndex(name string) (int, bool) {
	n, ok := t.stacks[name]
	return n, ok
}

// BinaryIndex returns the storage index of a declared binary.
func (t *Translator) BinaryIndex(name string) (int, bool) {
	n, ok := t.binaries[name]
	return n, ok
}

// Translate generates the target text for a whole compilation unit,
// starting from an empty registry.
func Translate(stmts []Stmt, idents *Identifiers) (string, error) {
	text, _, err := Generate(stmts, idents, nil)
	return text, err
}

// Generate translates stmts with the given registry and returns the text
// together with the registry as it stands after the last statement.
func Generate(stmts []Stmt, idents *Identifiers, reg Registry) (string, Registry, error) {
	return NewTranslator(idents).Generate(stmts, reg)
}

func (t *Translator) Generate(stmts []Stmt, reg Registry) (string, Registry, error) {
	var buf bytes.Buffer
	reg, err := t.EmitBlock(&buf, stmts, reg)
	if err != nil {
		return "", nil, err
	}
	return buf.String(), reg, nil
}

// EmitBlock writes every statement in order. The registry returned by one
// statement is the registry seen by the next.
func (t *Translator) EmitBlock(buf *bytes.Buffer, stmts []Stmt, reg Registry) (Registry, error) {
	var err error
	for _, stmt := range stmts {
		reg, err = t.EmitStatement(buf, stmt, reg)
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// EmitStatement writes the code for one statement.
func (t *Translator) EmitStatement(buf *bytes.Buffer, stmt Stmt, reg Registry) (Registry, error) {
	switch n := stmt.(type) {
	case *StackDeclaration:
		// Stacks start empty; nothing to emit.

	case *BinaryDeclaration:
		index, ok := t.binaries[n.Name]
		if !ok {
			return nil, generateErrorf(n, "binary %s is not declared", n.Name)
		}
		if err := t.EmitExpression(buf, n.Value); err != nil {
			return nil, err
		}
		writeIndexed(buf, index, opStore)

	case *Assignment:
		if n.Target == Current {
			if err := t.EmitExpression(buf, n.Value); err != nil {
				return nil, err
			}
			break
		}
		index, ok := t.binaries[n.Target]
		if !ok {
			return nil, generateErrorf(n, "assignment target %s is not declared", n.Target)
		}
		writeIndexed(buf, index, opLoad)
		if err := t.EmitExpression(buf, n.Value); err != nil {
			return nil, err
		}
		writeIndexed(buf, index, opStore)

	case *PushOperation:
		if err := t.EmitExpression(buf, n.Value); err != nil {
			return nil, err
		}
		if n.Stack == Current {
			buf.WriteString(opStore)
			break
		}
		index, ok := t.stacks[n.Stack]
		if !ok {
			return nil, generateErrorf(n, "stack %s is not declared", n.Stack)
		}
		writeIndexed(buf, index, opStore)

	case *Output:
		if err := t.EmitExpression(buf, n.Value); err != nil {
			return nil, err
		}
		buf.WriteString(opWrite)

	case *FunctionCall:
		if !reg.Contains(n.Name) {
			return nil, generateErrorf(n, "function %s is not defined", n.Name)
		}
		buf.WriteString(n.Name)
		buf.WriteString(opCall)

	case *FunctionDefinition:
		return t.emitFunction(buf, n, n.Name, n.Body, "[", "]", reg)

	case *FunctionDefinitionAndCall:
		return t.emitFunction(buf, n, n.Name, n.Body, "(", ")", reg)

	case *IfStatement:
		if err := t.EmitExpression(buf, n.Cond); err != nil {
			return nil, err
		}
		buf.WriteByte('[')
		thenReg, err := t.EmitBlock(buf, n.Then, reg)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		elseReg, err := t.EmitBlock(buf, n.Else, reg)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(']')
		// Both branches started from reg, so anything past len(reg) in
		// elseReg was defined inside the else branch.
		merged := thenReg
		for _, name := range elseReg[len(reg):] {
			merged = merged.With(name)
		}
		reg = merged

	case *WhileLoop:
		if err := t.EmitExpression(buf, n.Cond); err != nil {
			return nil, err
		}
		buf.WriteByte('(')
		var err error
		reg, err = t.EmitBlock(buf, n.Body, reg)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(')')

	case *BreakLoop:
		buf.WriteString(opBreak)

	case *PrintStatement:
		buf.WriteByte('{')
		buf.WriteString(EscapeLiteral(n.Text))
		if n.Newline {
			buf.WriteString(litNewline)
		}
		buf.WriteByte('}')

	default:
		return nil, generateErrorf(stmt, "unsupported statement %s", stmt.Kind())
	}
	return reg, nil
}

// emitFunction writes name:<opening>body<closing>. The body sees the registry
// at entry, so a function can never call itself; the name becomes
// callable only for the statements after the definition.
func (t *Translator) emitFunction(buf *bytes.Buffer, n Stmt, name string, body []Stmt, opening, closing string, reg Registry) (Registry, error) {
	if name == Current {
		return nil, generateErrorf(n, "name %s is reserved and cannot be redefined", name)
	}
	buf.WriteString(name)
	buf.WriteByte(':')
	buf.WriteString(opening)
	reg, err := t.EmitBlock(buf, body, reg)
	if err != nil {
		return nil, err
	}
	buf.WriteString(closing)
	return reg.With(name), nil
}

// EmitExpression writes code leaving the expression's value in the
// accumulator.
func (t *Translator) EmitExpression(buf *bytes.Buffer, expr Expr) error {
	switch n := expr.(type) {
	case *Identifier:
		if n.Name == Current {
			return nil
		}
		index, ok := t.binaries[n.Name]
		if !ok {
			return generateErrorf(n, "name %s is not declared", n.Name)
		}
		writeIndexed(buf, index, opLoad)
		buf.WriteString(opStore)

	case *PopOperation:
		if n.Stack == Current {
			buf.WriteString(opLoad)
			return nil
		}
		index, ok := t.stacks[n.Stack]
		if !ok {
			return generateErrorf(n, "stack name %s is not declared", n.Stack)
		}
		writeIndexed(buf, index, opLoad)

	case *BooleanLiteral:
		if n.Value {
			buf.WriteString(litTrue)
		} else {
			buf.WriteString(litFalse)
		}

	case *Input:
		buf.WriteString(opRead)

	case *NotOp:
		if err := t.EmitExpression(buf, n.Operand); err != nil {
			return err
		}
		buf.WriteString(opNegate)

	default:
		return generateErrorf(expr, "unsupported expression %s", expr.Kind())
	}
	return nil
}

func writeIndexed(buf *bytes.Buffer, index int, op string) {
	buf.WriteString(strconv.Itoa(index))
	buf.WriteString(op)
}
