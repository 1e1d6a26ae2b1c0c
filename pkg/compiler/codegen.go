package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// includes are emitted at the top of every translation unit.
var includes = []string{"stdio.h", "stdlib.h", "stdbool.h"}

// cTypes is the C spelling of each declarable Type.
var cTypes = map[Type]string{
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
	String: "char*",
	Char:   "char",
}

// formatSpecifiers selects the printf conversion for each Type. Bool prints
// as an integer.
var formatSpecifiers = map[Type]string{
	Int:    "%d",
	Float:  "%f",
	Bool:   "%d",
	String: "%s",
	Char:   "%c",
}

// cOperators maps source infix operators to C.
var cOperators = map[string]string{
	"+": "+",
	"-": "-",
	"*": "*",
}

// CodeGen walks a Program and emits C source text.
//
// All state is reset by Generate, so a CodeGen can be reused for any
// number of independent programs.
type CodeGen struct {
	scope    *Scope
	resolver *Resolver
	out      strings.Builder
}

// NewCodeGen returns a CodeGen ready for Generate.
func NewCodeGen() *CodeGen {
	cg := &CodeGen{}
	cg.reset()
	return cg
}

func (cg *CodeGen) reset() {
	cg.scope = NewScope(nil)
	cg.resolver = NewResolver(cg.scope)
	cg.out.Reset()
}

// Scope returns the variable table built by the last Generate call.
func (cg *CodeGen) Scope() *Scope { return cg.scope }

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

// stmt emits one indented statement inside main.
func (cg *CodeGen) stmt(format string, args ...any) {
	cg.line("    "+format, args...)
}

// Generate translates prog into a complete C program.
func (cg *CodeGen) Generate(prog *Program) (string, error) {
	cg.reset()

	for _, inc := range includes {
		cg.line("#include <%s>", inc)
	}
	cg.line("")
	cg.line("int main() {")

	for _, s := range prog.Body {
		if _, err := VisitStmt[struct{}](s, cg); err != nil {
			if errors.Is(err, ErrUnknownNode) {
				return "", newCodegenError(Pos{}, "%s", ErrUnknownNode)
			}
			return "", err
		}
	}

	cg.stmt("return 0;")
	cg.line("}")
	return cg.out.String(), nil
}

// Generate translates prog with a fresh CodeGen.
func Generate(prog *Program) (string, error) {
	return NewCodeGen().Generate(prog)
}

func (cg *CodeGen) VisitLet(n *LetDeclaration) (struct{}, error) {
	t, err := cg.resolver.DeclaredType(n)
	if err != nil {
		return struct{}{}, err
	}

	value, err := cg.expr(n.Value)
	if err != nil {
		return struct{}{}, err
	}
	if n.Annotation != "" {
		// The annotation fixes the variable's type, but the initializer
		// must still be well typed on its own.
		if _, err := cg.resolver.Resolve(n.Value); err != nil {
			return struct{}{}, err
		}
	}

	if err := cg.scope.Declare(n.Name, t); err != nil {
		return struct{}{}, newTypeError(n.Pos, "%s", err)
	}
	cg.stmt("%s %s = %s;", cTypes[t], n.Name, value)
	return struct{}{}, nil
}

func (cg *CodeGen) VisitCall(n *CallExpression) (struct{}, error) {
	if n.Callee != "print" {
		return struct{}{}, newCodegenError(n.Pos, "Unknown function: %s", n.Callee)
	}
	if len(n.Arguments) != 1 {
		return struct{}{}, newCodegenError(n.Pos, "print expects 1 argument, got %d", len(n.Arguments))
	}

	arg := n.Arguments[0]
	t, err := cg.resolver.Resolve(arg)
	if err != nil {
		return struct{}{}, err
	}
	spec, ok := formatSpecifiers[t]
	if !ok {
		return struct{}{}, newCodegenError(n.Pos, "Cannot print value of type %s", t)
	}

	value, err := cg.expr(arg)
	if err != nil {
		return struct{}{}, err
	}
	cg.stmt(`printf("%s\n", %s);`, spec, value)
	return struct{}{}, nil
}

// expr renders e as C expression text.
func (cg *CodeGen) expr(e Expr) (string, error) {
	s, err := VisitExpr[string](e, cg)
	if errors.Is(err, ErrUnknownNode) {
		return "", newCodegenError(Pos{}, "%s", ErrUnknownNode)
	}
	return s, err
}

func (cg *CodeGen) VisitNumber(n *NumberLiteral) (string, error) {
	return strconv.FormatFloat(n.Value, 'f', -1, 64), nil
}

func (cg *CodeGen) VisitString(n *StringLiteral) (string, error) {
	return `"` + escapeC(n.Value, '"') + `"`, nil
}

// VisitChar only accepts ASCII: a C char holds a single byte.
func (cg *CodeGen) VisitChar(n *CharLiteral) (string, error) {
	if n.Value > unicode.MaxASCII {
		return "", newCodegenError(n.Pos, "Char literal %s is not a single-byte C char", n)
	}
	return "'" + escapeC(string(n.Value), '\'') + "'", nil
}

func (cg *CodeGen) VisitBoolean(n *BooleanLiteral) (string, error) {
	return strconv.FormatBool(n.Value), nil
}

func (cg *CodeGen) VisitIdentifier(n *Identifier) (string, error) {
	if _, ok := cg.scope.Lookup(n.Name); !ok {
		return "", newCodegenError(n.Pos, "Undefined variable: %s", n.Name)
	}
	return n.Name, nil
}

func (cg *CodeGen) VisitBinary(n *BinaryExpression) (string, error) {
	left, err := cg.expr(n.Left)
	if err != nil {
		return "", err
	}
	right, err := cg.expr(n.Right)
	if err != nil {
		return "", err
	}
	op, ok := cOperators[n.Operator]
	if !ok {
		return "", newCodegenError(n.Pos, "Unknown operator: %s", n.Operator)
	}
	return fmt.Sprintf("(%s %s %s)", left, op, right), nil
}

func (cg *CodeGen) VisitUnary(n *UnaryExpression) (string, error) {
	operand, err := cg.expr(n.Right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(-%s)", operand), nil
}

// escapeC escapes s for use inside a C literal delimited by quote.
func escapeC(s string, quote rune) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case quote:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
