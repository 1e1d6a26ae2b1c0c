package eval

import (
	"bytes"
	"errors"
	"testing"

	"toyc/pkg/compiler"
)

func parse(t *testing.T, src string) *compiler.Program {
	t.Helper()
	tokens, err := compiler.Lex(src)
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	prog, err := compiler.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return prog
}

func TestEvalProgram(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Value
		output string
	}{
		{"Empty", "", Void, ""},
		{"Int Arithmetic", "print(3 + 4 * 2);", IntValue(11), "11\n"},
		{"Left Associative", "print(10 - 4 - 3);", IntValue(3), "3\n"},
		{"Mixed Promotes", "print(1 + 0.5);", FloatValue(1.5), "1.5\n"},
		{"Unary", "print(-(2 * 3));", IntValue(-6), "-6\n"},
		{"Unary Float", "print(2 * -1.25);", FloatValue(-2.5), "-2.5\n"},
		{"String", `print("hello");`, StringValue("hello"), "hello\n"},
		{"Char", "print('z');", CharValue('z'), "z\n"},
		{"Bool", "print(true);", BoolValue(true), "true\n"},
		{"Large Int", "print(4611686018427387904);", IntValue(1 << 62), "4611686018427387904\n"},
		{"Let Returns Value", "let x = 2 * 21;", IntValue(42), ""},
		{"Last Statement Wins", "print(1); let y = 2.5;", FloatValue(2.5), "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := New(&out).EvalProgram(parse(t, tt.input))
			if err != nil {
				t.Fatalf("EvalProgram() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalProgram() = %s (%s), want %s (%s)", got, got.Type, tt.want, tt.want.Type)
			}
			if out.String() != tt.output {
				t.Errorf("output = %q, want %q", out.String(), tt.output)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"Identifier", "let x = 1; print(x);", "Cannot evaluate identifier directly"},
		{"String Arithmetic", `print("a" + 1);`, "Type mismatch: String and Int"},
		{"Bool Arithmetic", "print(true * false);", "Type mismatch: Bool and Bool"},
		{"Unary On Char", "print(-'a');", "Invalid operand for unary '-': Char"},
		{"Integer Literal Too Large", "print(100000000000000000000);", "Integer literal out of range: 100000000000000000000"},
		{"Integer Literal At Int64 Limit", "print(1 + 9223372036854775808);", "Integer literal out of range: 9223372036854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := New(&out).EvalProgram(parse(t, tt.input))
			var evalErr *EvalError
			if !errors.As(err, &evalErr) {
				t.Fatalf("EvalProgram() error = %v, want *EvalError", err)
			}
			if evalErr.Msg != tt.msg {
				t.Errorf("Msg = %q, want %q", evalErr.Msg, tt.msg)
			}
		})
	}
}

func TestEvalHandBuiltNodes(t *testing.T) {
	tests := []struct {
		name string
		node any
		msg  string
	}{
		{"Unknown Callee", &compiler.CallExpression{Callee: "puts", Arguments: []compiler.Expr{&compiler.NumberLiteral{Value: 1}}}, "Unknown function: puts"},
		{"Unknown Operator", &compiler.BinaryExpression{Operator: "/", Left: &compiler.NumberLiteral{Value: 4}, Right: &compiler.NumberLiteral{Value: 2}}, "Unknown operator: /"},
		{"Unknown Float Operator", &compiler.BinaryExpression{Operator: "/", Left: &compiler.NumberLiteral{Value: 4.5}, Right: &compiler.NumberLiteral{Value: 2}}, "Unknown operator: /"},
		{"Not A Node", 42, "Unknown node type"},
		{"Nil", nil, "Unknown node type"},
		{"Nil Initializer", &compiler.LetDeclaration{Name: "x"}, "Unknown node type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&bytes.Buffer{}).Evaluate(tt.node)
			var evalErr *EvalError
			if !errors.As(err, &evalErr) {
				t.Fatalf("Evaluate() error = %v, want *EvalError", err)
			}
			if evalErr.Msg != tt.msg {
				t.Errorf("Msg = %q, want %q", evalErr.Msg, tt.msg)
			}
		})
	}
}

func TestEvaluateDispatch(t *testing.T) {
	prog := parse(t, "print(2 * 3);")
	ev := New(&bytes.Buffer{})

	fromProg, err := ev.Evaluate(prog)
	if err != nil {
		t.Fatal(err)
	}
	fromStmt, err := ev.Evaluate(prog.Body[0])
	if err != nil {
		t.Fatal(err)
	}
	fromExpr, err := ev.Evaluate(prog.Body[0].(*compiler.CallExpression).Arguments[0])
	if err != nil {
		t.Fatal(err)
	}
	if fromProg != IntValue(6) || fromStmt != IntValue(6) || fromExpr != IntValue(6) {
		t.Errorf("got %s, %s, %s; want 6 each time", fromProg, fromStmt, fromExpr)
	}
}

func TestEvalErrorString(t *testing.T) {
	prog := parse(t, "print(\n  x);")
	_, err := New(&bytes.Buffer{}).EvalProgram(prog)
	if err == nil || err.Error() != "eval error at 2:3: Cannot evaluate identifier directly" {
		t.Errorf("Error() = %v", err)
	}
	if got := (&EvalError{Msg: "Unknown node type"}).Error(); got != "eval error: Unknown node type" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{IntValue(-7), "-7"},
		{FloatValue(0.1), "0.1"},
		{FloatValue(3), "3"},
		{BoolValue(false), "false"},
		{CharValue('é'), "é"},
		{StringValue("a b"), "a b"},
		{Void, "void"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.v, got, tt.want)
		}
	}
	if IntValue(2).Float() != 2.0 {
		t.Error("Int value should convert to Float")
	}
}
