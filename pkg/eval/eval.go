// Package eval interprets a parsed program directly, without generating C.
//
// The evaluator keeps no variable store: a let declaration evaluates its
// initializer and returns the value without binding it, and every
// identifier fails to evaluate. Programs that only print expressions over
// literals run to completion; anything that reads a variable does not.
package eval

import (
	"errors"
	"fmt"
	"io"
	"os"

	"toyc/pkg/compiler"
)

// EvalError is returned when a node cannot be evaluated.
type EvalError struct {
	Line, Col int
	Msg       string
}

func (e *EvalError) Error() string {
	if e.Line <= 0 {
		return "eval error: " + e.Msg
	}
	return fmt.Sprintf("eval error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func errorf(pos compiler.Pos, format string, args ...any) *EvalError {
	return &EvalError{Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)}
}

// Evaluator walks an AST and computes values. Its only state is where
// print writes.
type Evaluator struct {
	Out io.Writer
}

// New returns an Evaluator printing to out, or to os.Stdout if out is nil.
func New(out io.Writer) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	return &Evaluator{Out: out}
}

// Evaluate interprets node, which must be a *compiler.Program, a
// compiler.Stmt or a compiler.Expr.
func (ev *Evaluator) Evaluate(node any) (Value, error) {
	switch n := node.(type) {
	case *compiler.Program:
		return ev.EvalProgram(n)
	case compiler.Stmt:
		return ev.EvalStmt(n)
	case compiler.Expr:
		return ev.EvalExpr(n)
	}
	return Void, &EvalError{Msg: compiler.ErrUnknownNode.Error()}
}

// EvalProgram evaluates each statement in order and returns the value of
// the last one, or Void for an empty program.
func (ev *Evaluator) EvalProgram(p *compiler.Program) (Value, error) {
	last := Void
	for _, s := range p.Body {
		v, err := ev.EvalStmt(s)
		if err != nil {
			return Void, err
		}
		last = v
	}
	return last, nil
}

func (ev *Evaluator) EvalStmt(s compiler.Stmt) (Value, error) {
	v, err := compiler.VisitStmt[Value](s, ev)
	if errors.Is(err, compiler.ErrUnknownNode) {
		return Void, &EvalError{Msg: err.Error()}
	}
	return v, err
}

func (ev *Evaluator) EvalExpr(e compiler.Expr) (Value, error) {
	v, err := compiler.VisitExpr[Value](e, ev)
	if errors.Is(err, compiler.ErrUnknownNode) {
		return Void, &EvalError{Msg: err.Error()}
	}
	return v, err
}

// VisitLet evaluates the initializer. The value is not bound to the name.
func (ev *Evaluator) VisitLet(n *compiler.LetDeclaration) (Value, error) {
	return ev.EvalExpr(n.Value)
}

func (ev *Evaluator) VisitCall(n *compiler.CallExpression) (Value, error) {
	if n.Callee != "print" {
		return Void, errorf(n.Pos, "Unknown function: %s", n.Callee)
	}
	if len(n.Arguments) != 1 {
		return Void, errorf(n.Pos, "print expects 1 argument, got %d", len(n.Arguments))
	}
	v, err := ev.EvalExpr(n.Arguments[0])
	if err != nil {
		return Void, err
	}
	if _, err := fmt.Fprintln(ev.Out, v); err != nil {
		return Void, err
	}
	return v, nil
}

func (ev *Evaluator) VisitNumber(n *compiler.NumberLiteral) (Value, error) {
	if !n.IsIntegral() {
		return FloatValue(n.Value), nil
	}
	i, ok := n.Int()
	if !ok {
		return Void, errorf(n.Pos, "Integer literal out of range: %s", n)
	}
	return IntValue(i), nil
}

func (ev *Evaluator) VisitString(n *compiler.StringLiteral) (Value, error) {
	return StringValue(n.Value), nil
}

func (ev *Evaluator) VisitChar(n *compiler.CharLiteral) (Value, error) {
	return CharValue(n.Value), nil
}

func (ev *Evaluator) VisitBoolean(n *compiler.BooleanLiteral) (Value, error) {
	return BoolValue(n.Value), nil
}

func (ev *Evaluator) VisitIdentifier(n *compiler.Identifier) (Value, error) {
	return Void, errorf(n.Pos, "Cannot evaluate identifier directly")
}

func (ev *Evaluator) VisitBinary(n *compiler.BinaryExpression) (Value, error) {
	left, err := ev.EvalExpr(n.Left)
	if err != nil {
		return Void, err
	}
	right, err := ev.EvalExpr(n.Right)
	if err != nil {
		return Void, err
	}
	if !left.Type.IsNumeric() || !right.Type.IsNumeric() {
		return Void, errorf(n.Pos, "Type mismatch: %s and %s", left.Type, right.Type)
	}

	if left.Type == compiler.Int && right.Type == compiler.Int {
		a, b := left.Int(), right.Int()
		switch n.Operator {
		case "+":
			return IntValue(a + b), nil
		case "-":
			return IntValue(a - b), nil
		case "*":
			return IntValue(a * b), nil
		}
		return Void, errorf(n.Pos, "Unknown operator: %s", n.Operator)
	}

	a, b := left.Float(), right.Float()
	switch n.Operator {
	case "+":
		return FloatValue(a + b), nil
	case "-":
		return FloatValue(a - b), nil
	case "*":
		return FloatValue(a * b), nil
	}
	return Void, errorf(n.Pos, "Unknown operator: %s", n.Operator)
}

func (ev *Evaluator) VisitUnary(n *compiler.UnaryExpression) (Value, error) {
	v, err := ev.EvalExpr(n.Right)
	if err != nil {
		return Void, err
	}
	switch v.Type {
	case compiler.Int:
		return IntValue(-v.Int()), nil
	case compiler.Float:
		return FloatValue(-v.Float()), nil
	}
	return Void, errorf(n.Pos, "Invalid operand for unary '%s': %s", n.Operator, v.Type)
}
