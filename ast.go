package main

import (
	"strconv"
	"strings"
)

// NodeKind identifies the form of an AST node.
type NodeKind string

const (
	NodeStackDeclaration          NodeKind = "StackDeclaration"
	NodeBinaryDeclaration         NodeKind = "BinaryDeclaration"
	NodeAssignment                NodeKind = "Assignment"
	NodePushOperation             NodeKind = "PushOperation"
	NodePopOperation              NodeKind = "PopOperation"
	NodeFunctionDefinition        NodeKind = "FunctionDefinition"
	NodeFunctionDefinitionAndCall NodeKind = "FunctionDefinitionAndCall"
	NodeFunctionCall              NodeKind = "FunctionCall"
	NodeIfStatement               NodeKind = "IfStatement"
	NodeWhileLoop                 NodeKind = "WhileLoop"
	NodeBreakLoop                 NodeKind = "BreakLoop"
	NodeOutput                    NodeKind = "Output"
	NodePrintStatement            NodeKind = "PrintStatement"
	NodeInput                     NodeKind = "Input"
	NodeBooleanLiteral            NodeKind = "BooleanLiteral"
	NodeIdentifier                NodeKind = "Identifier"
	NodeNotOp                     NodeKind = "NotOp"
)

// Node is implemented by every AST node.
type Node interface {
	Kind() NodeKind
	Pos() int // 1-based source line
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node. Translating an expression leaves its value
// in the accumulator.
type Expr interface {
	Node
	exprNode()
}

// Statements

// StackDeclaration: stack s;
type StackDeclaration struct {
	Name string
	Line int
}

// BinaryDeclaration: binary b = expr;
// Without an initializer Value is Identifier{Name: "current"}.
type BinaryDeclaration struct {
	Name  string
	Value Expr
	Line  int
}

// Assignment: b = expr;
type Assignment struct {
	Target string
	Value  Expr
	Line   int
}

// PushOperation: s.push(expr);
type PushOperation struct {
	Stack string
	Value Expr
	Line  int
}

// FunctionDefinition: func f { ... };
type FunctionDefinition struct {
	Name string
	Body []Stmt
	Line int
}

// FunctionDefinitionAndCall: func main() { ... }
//
// Defines the function and invokes it once at the point of definition.
type FunctionDefinitionAndCall struct {
	Name string
	Body []Stmt
	Line int
}

// FunctionCall: f();
type FunctionCall struct {
	Name string
	Line int
}

// IfStatement: if (cond) { ... } else { ... };
// Else is empty when the source has no else branch.
type IfStatement struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Line int
}

// WhileLoop: while (cond) { ... }
type WhileLoop struct {
	Cond Expr
	Body []Stmt
	Line int
}

// BreakLoop: break;
type BreakLoop struct {
	Line int
}

// Output: output(expr);
type Output struct {
	Value Expr
	Line  int
}

// PrintStatement: print("text"); or println("text");
// Text holds the decoded literal, not target-escaped.
type PrintStatement struct {
	Text    string
	Newline bool
	Line    int
}

// Expressions

type PopOperation struct {
	Stack string
	Line  int
}

type Input struct {
	Line int
}

type BooleanLiteral struct {
	Value bool
	Line  int
}

type Identifier struct {
	Name string
	Line int
}

type NotOp struct {
	Operand Expr
	Line    int
}

func (*StackDeclaration) Kind() NodeKind          { return NodeStackDeclaration }
func (*BinaryDeclaration) Kind() NodeKind         { return NodeBinaryDeclaration }
func (*Assignment) Kind() NodeKind                { return NodeAssignment }
func (*PushOperation) Kind() NodeKind             { return NodePushOperation }
func (*FunctionDefinition) Kind() NodeKind        { return NodeFunctionDefinition }
func (*FunctionDefinitionAndCall) Kind() NodeKind { return NodeFunctionDefinitionAndCall }
func (*FunctionCall) Kind() NodeKind              { return NodeFunctionCall }
func (*IfStatement) Kind() NodeKind               { return NodeIfStatement }
func (*WhileLoop) Kind() NodeKind                 { return NodeWhileLoop }
func (*BreakLoop) Kind() NodeKind                 { return NodeBreakLoop }
func (*Output) Kind() NodeKind                    { return NodeOutput }
func (*PrintStatement) Kind() NodeKind            { return NodePrintStatement }
func (*PopOperation) Kind() NodeKind              { return NodePopOperation }
func (*Input) Kind() NodeKind                     { return NodeInput }
func (*BooleanLiteral) Kind() NodeKind            { return NodeBooleanLiteral }
func (*Identifier) Kind() NodeKind                { return NodeIdentifier }
func (*NotOp) Kind() NodeKind                     { return NodeNotOp }

func (n *StackDeclaration) Pos() int          { return n.Line }
func (n *BinaryDeclaration) Pos() int         { return n.Line }
func (n *Assignment) Pos() int                { return n.Line }
func (n *PushOperation) Pos() int             { return n.Line }
func (n *FunctionDefinition) Pos() int        { return n.Line }
func (n *FunctionDefinitionAndCall) Pos() int { return n.Line }
func (n *FunctionCall) Pos() int              { return n.Line }
func (n *IfStatement) Pos() int               { return n.Line }
func (n *WhileLoop) Pos() int                 { return n.Line }
func (n *BreakLoop) Pos() int                 { return n.Line }
func (n *Output) Pos() int                    { return n.Line }
func (n *PrintStatement) Pos() int            { return n.Line }
func (n *PopOperation) Pos() int              { return n.Line }
func (n *Input) Pos() int                     { return n.Line }
func (n *BooleanLiteral) Pos() int            { return n.Line }
func (n *Identifier) Pos() int                { return n.Line }
func (n *NotOp) Pos() int                     { return n.Line }

func (*StackDeclaration) stmtNode()          {}
func (*BinaryDeclaration) stmtNode()         {}
func (*Assignment) stmtNode()                {}
func (*PushOperation) stmtNode()             {}
func (*FunctionDefinition) stmtNode()        {}
func (*FunctionDefinitionAndCall) stmtNode() {}
func (*FunctionCall) stmtNode()              {}
func (*IfStatement) stmtNode()               {}
func (*WhileLoop) stmtNode()                 {}
func (*BreakLoop) stmtNode()                 {}
func (*Output) stmtNode()                    {}
func (*PrintStatement) stmtNode()            {}

func (*PopOperation) exprNode()   {}
func (*Input) exprNode()          {}
func (*BooleanLiteral) exprNode() {}
func (*Identifier) exprNode()     {}
func (*NotOp) exprNode()          {}

// ToSExpr converts an AST node to its s-expression representation.
func ToSExpr(node Node) string {
	var b strings.Builder
	writeSExpr(&b, node)
	return b.String()
}

// ProgramToSExpr renders a statement list as (program ...).
func ProgramToSExpr(stmts []Stmt) string {
	var b strings.Builder
	b.WriteString("(program")
	for _, stmt := range stmts {
		b.WriteByte(' ')
		writeSExpr(&b, stmt)
	}
	b.WriteByte(')')
	return b.String()
}

func writeSExpr(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *StackDeclaration:
		b.WriteString("(stack " + quoteSExpr(n.Name) + ")")
	case *BinaryDeclaration:
		b.WriteString("(binary " + quoteSExpr(n.Name) + " ")
		writeSExpr(b, n.Value)
		b.WriteByte(')')
	case *Assignment:
		b.WriteString("(assign " + quoteSExpr(n.Target) + " ")
		writeSExpr(b, n.Value)
		b.WriteByte(')')
	case *PushOperation:
		b.WriteString("(push " + quoteSExpr(n.Stack) + " ")
		writeSExpr(b, n.Value)
		b.WriteByte(')')
	case *FunctionDefinition:
		b.WriteString("(func " + quoteSExpr(n.Name) + " ")
		writeBlock(b, n.Body)
		b.WriteByte(')')
	case *FunctionDefinitionAndCall:
		b.WriteString("(func-call " + quoteSExpr(n.Name) + " ")
		writeBlock(b, n.Body)
		b.WriteByte(')')
	case *FunctionCall:
		b.WriteString("(call " + quoteSExpr(n.Name) + ")")
	case *IfStatement:
		b.WriteString("(if ")
		writeSExpr(b, n.Cond)
		b.WriteByte(' ')
		writeBlock(b, n.Then)
		b.WriteByte(' ')
		writeBlock(b, n.Else)
		b.WriteByte(')')
	case *WhileLoop:
		b.WriteString("(while ")
		writeSExpr(b, n.Cond)
		b.WriteByte(' ')
		writeBlock(b, n.Body)
		b.WriteByte(')')
	case *BreakLoop:
		b.WriteString("(break)")
	case *Output:
		b.WriteString("(output ")
		writeSExpr(b, n.Value)
		b.WriteByte(')')
	case *PrintStatement:
		if n.Newline {
			b.WriteString("(println " + quoteSExpr(n.Text) + ")")
		} else {
			b.WriteString("(print " + quoteSExpr(n.Text) + ")")
		}
	case *PopOperation:
		b.WriteString("(pop " + quoteSExpr(n.Stack) + ")")
	case *Input:
		b.WriteString("(input)")
	case *BooleanLiteral:
		b.WriteString("(boolean " + strconv.FormatBool(n.Value) + ")")
	case *Identifier:
		b.WriteString("(ident " + quoteSExpr(n.Name) + ")")
	case *NotOp:
		b.WriteString("(not ")
		writeSExpr(b, n.Operand)
		b.WriteByte(')')
	}
}

func writeBlock(b *strings.Builder, stmts []Stmt) {
	b.WriteString("(block")
	for _, stmt := range stmts {
		b.WriteByte(' ')
		writeSExpr(b, stmt)
	}
	b.WriteByte(')')
}

// quoteSExpr quotes s the way sexy.Parse reads strings back: only '"' and
// '\' are escaped.
func quoteSExpr(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
