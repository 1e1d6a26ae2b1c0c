package compiler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pos is the 1-based source position of a node's first token.
type Pos struct {
	Line int
	Col  int
}

// Position returns p; embedding Pos gives every node the method.
func (p Pos) Position() Pos { return p }

//  Expression nodes

// Expr is implemented by every node that produces a value. The set of
// implementations is closed: the marker method is unexported.
type Expr interface {
	exprNode()
	Position() Pos
	String() string
}

// NumberLiteral is a numeric constant. Integral values type as Int,
// fractional ones as Float.
//
//	let x = 1.5;
//	        ^^^  NumberLiteral{Value: 1.5}
type NumberLiteral struct {
	Pos
	Value float64
}

func (*NumberLiteral) exprNode() {}
func (n *NumberLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// IsIntegral reports whether the literal has no fractional part.
func (n *NumberLiteral) IsIntegral() bool {
	return math.Trunc(n.Value) == n.Value
}

// intLimit is 2^63, the first magnitude an int64 cannot hold.
const intLimit = 1 << 63

// Int returns an integral literal as int64. ok is false when the literal is
// fractional or outside the int64 range.
func (n *NumberLiteral) Int() (v int64, ok bool) {
	if !n.IsIntegral() || n.Value >= intLimit || n.Value < -intLimit {
		return 0, false
	}
	return int64(n.Value), true
}

// StringLiteral is a string constant "...".
type StringLiteral struct {
	Pos
	Value string
}

func (*StringLiteral) exprNode()        {}
func (s *StringLiteral) String() string { return strconv.Quote(s.Value) }

// CharLiteral is a single character 'c'.
type CharLiteral struct {
	Pos
	Value rune
}

func (*CharLiteral) exprNode()        {}
func (c *CharLiteral) String() string { return strconv.QuoteRune(c.Value) }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Pos
	Value bool
}

func (*BooleanLiteral) exprNode()        {}
func (b *BooleanLiteral) String() string { return strconv.FormatBool(b.Value) }

// Identifier is a read of a declared variable.
type Identifier struct {
	Pos
	Name string
}

func (*Identifier) exprNode()        {}
func (i *Identifier) String() string { return i.Name }

// BinaryExpression represents Left Operator Right, Operator one of + - *.
//
//	x + 1
//	^ ^ ^
//	| | Right
//	| Operator
//	Left
type BinaryExpression struct {
	Pos
	Operator string
	Left     Expr
	Right    Expr
}

func (*BinaryExpression) exprNode() {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}

// UnaryExpression represents -Right.
type UnaryExpression struct {
	Pos
	Operator string
	Right    Expr
}

func (*UnaryExpression) exprNode() {}
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator, u.Right)
}

//  Statement nodes

// Stmt is implemented by every top-level statement node.
type Stmt interface {
	stmtNode()
	Position() Pos
	String() string
}

// LetDeclaration represents  let name (: Annotation)? = Value;
// Annotation is "" when absent.
type LetDeclaration struct {
	Pos
	Name       string
	Annotation string
	Value      Expr
}

func (*LetDeclaration) stmtNode() {}
func (d *LetDeclaration) String() string {
	if d.Annotation != "" {
		return fmt.Sprintf("LetDeclaration(%s: %s = %s)", d.Name, d.Annotation, d.Value)
	}
	return fmt.Sprintf("LetDeclaration(%s = %s)", d.Name, d.Value)
}

// CallExpression is a call of a built-in. The parser only produces
// print(expr), so Callee is "print" with exactly one argument.
type CallExpression struct {
	Pos
	Callee    string
	Arguments []Expr
}

func (*CallExpression) stmtNode() {}
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("CallExpression(%s, %s)", c.Callee, strings.Join(args, ", "))
}

// Program is the root node: statements in source order.
type Program struct {
	Body []Stmt
}

func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	for _, s := range p.Body {
		fmt.Fprintf(&sb, "  %s\n", s)
	}
	return sb.String()
}

//  Visitors

// ExprVisitor is implemented by every consumer of expressions. Adding a
// node kind adds a method here, so each consumer must handle it to compile.
type ExprVisitor[T any] interface {
	VisitNumber(*NumberLiteral) (T, error)
	VisitString(*StringLiteral) (T, error)
	VisitChar(*CharLiteral) (T, error)
	VisitBoolean(*BooleanLiteral) (T, error)
	VisitIdentifier(*Identifier) (T, error)
	VisitBinary(*BinaryExpression) (T, error)
	VisitUnary(*UnaryExpression) (T, error)
}

// StmtVisitor is implemented by every consumer of statements.
type StmtVisitor[T any] interface {
	VisitLet(*LetDeclaration) (T, error)
	VisitCall(*CallExpression) (T, error)
}

// ErrUnknownNode is returned when a nil node reaches VisitExpr or
// VisitStmt. Consumers rewrap it in their own error type.
var ErrUnknownNode = errors.New("Unknown node type")

// VisitExpr dispatches e to the matching method of v.
func VisitExpr[T any](e Expr, v ExprVisitor[T]) (T, error) {
	switch n := e.(type) {
	case *NumberLiteral:
		return v.VisitNumber(n)
	case *StringLiteral:
		return v.VisitString(n)
	case *CharLiteral:
		return v.VisitChar(n)
	case *BooleanLiteral:
		return v.VisitBoolean(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *BinaryExpression:
		return v.VisitBinary(n)
	case *UnaryExpression:
		return v.VisitUnary(n)
	}
	var zero T
	return zero, ErrUnknownNode
}

// VisitStmt dispatches s to the matching method of v.
func VisitStmt[T any](s Stmt, v StmtVisitor[T]) (T, error) {
	switch n := s.(type) {
	case *LetDeclaration:
		return v.VisitLet(n)
	case *CallExpression:
		return v.VisitCall(n)
	}
	var zero T
	return zero, ErrUnknownNode
}
