package compiler

import (
	"errors"
	"fmt"
)

// Type is the static type of an expression or variable.
type Type int

const (
	Int Type = iota
	Float
	Bool
	String
	Char
	Void
)

var typeNames = [...]string{
	Int:    "Int",
	Float:  "Float",
	Bool:   "Bool",
	String: "String",
	Char:   "Char",
	Void:   "Void",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsNumeric reports whether t takes part in arithmetic.
func (t Type) IsNumeric() bool { return t == Int || t == Float }

// ParseType maps an annotation such as "Float" to its Type.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return Type(t), true
		}
	}
	return Void, false
}

// Promote returns the result type of a binary operation on a and b: the
// common type when they are equal, Float for an Int/Float pair, and a
// *TypeError for anything else.
func Promote(a, b Type) (Type, error) {
	if a == b {
		return a, nil
	}
	if (a == Int && b == Float) || (a == Float && b == Int) {
		return Float, nil
	}
	return Void, &TypeError{Msg: fmt.Sprintf("Type mismatch: %s and %s", a, b)}
}

// Resolver infers expression types against a Scope. It holds no state of
// its own, so one value can be shared between passes.
type Resolver struct {
	scope *Scope
}

// NewResolver returns a Resolver that looks variables up in scope.
func NewResolver(scope *Scope) *Resolver {
	return &Resolver{scope: scope}
}

// Resolve returns the static type of e.
func (r *Resolver) Resolve(e Expr) (Type, error) {
	t, err := VisitExpr[Type](e, r)
	if errors.Is(err, ErrUnknownNode) {
		return Void, &TypeError{Msg: ErrUnknownNode.Error()}
	}
	return t, err
}

// DeclaredType returns the type a declaration gives its variable: the
// annotation when present, otherwise the initializer's type.
func (r *Resolver) DeclaredType(d *LetDeclaration) (Type, error) {
	if d.Annotation == "" {
		return r.Resolve(d.Value)
	}
	t, ok := ParseType(d.Annotation)
	if !ok {
		return Void, newTypeError(d.Pos, "Invalid type: %s", d.Annotation)
	}
	if t == Void {
		return Void, newTypeError(d.Pos, "Cannot declare variable of type Void")
	}
	return t, nil
}

func (r *Resolver) VisitNumber(n *NumberLiteral) (Type, error) {
	if !n.IsIntegral() {
		return Float, nil
	}
	if _, ok := n.Int(); !ok {
		return Void, newTypeError(n.Pos, "Integer literal out of range: %s", n)
	}
	return Int, nil
}

func (r *Resolver) VisitString(*StringLiteral) (Type, error)   { return String, nil }
func (r *Resolver) VisitChar(*CharLiteral) (Type, error)       { return Char, nil }
func (r *Resolver) VisitBoolean(*BooleanLiteral) (Type, error) { return Bool, nil }

func (r *Resolver) VisitIdentifier(n *Identifier) (Type, error) {
	t, ok := r.scope.Lookup(n.Name)
	if !ok {
		return Void, newTypeError(n.Pos, "Undefined variable: %s", n.Name)
	}
	return t, nil
}

func (r *Resolver) VisitBinary(n *BinaryExpression) (Type, error) {
	left, err := r.Resolve(n.Left)
	if err != nil {
		return Void, err
	}
	right, err := r.Resolve(n.Right)
	if err != nil {
		return Void, err
	}
	t, err := Promote(left, right)
	if err != nil {
		return Void, newTypeError(n.Pos, "Type mismatch: %s and %s", left, right)
	}
	return t, nil
}

func (r *Resolver) VisitUnary(n *UnaryExpression) (Type, error) {
	t, err := r.Resolve(n.Right)
	if err != nil {
		return Void, err
	}
	if !t.IsNumeric() {
		return Void, newTypeError(n.Pos, "Invalid operand for unary '%s': %s", n.Operator, t)
	}
	return t, nil
}
