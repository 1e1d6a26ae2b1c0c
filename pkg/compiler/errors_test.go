package compiler

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorStrings(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&LexError{Line: 1, Col: 9, Msg: "Unterminated string literal"}, "lex error at 1:9: Unterminated string literal"},
		{&ParseError{Line: 2, Col: 1, Msg: "Unexpected token: Colon"}, "parse error at 2:1: Unexpected token: Colon"},
		{&TypeError{Msg: "Type mismatch: Int and Bool"}, "type error: Type mismatch: Int and Bool"},
		{&CodegenError{Line: 3, Col: 4, Msg: "Unknown node type"}, "codegen error at 3:4: Unknown node type"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestStage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&LexError{}, "lex"},
		{&ParseError{}, "parse"},
		{&TypeError{}, "type"},
		{&CodegenError{}, "codegen"},
		{fmt.Errorf("compiling demo: %w", &TypeError{}), "type"},
		{errors.New("disk full"), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Stage(tt.err); got != tt.want {
			t.Errorf("Stage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestWrapErrorWithSource(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "Single Line",
			src:  "print(1",
			want: "PARSE ERROR at 1:8: Expected ')' after print argument\n\n" +
				"   1 | print(1\n" +
				"     |        ^\n",
		},
		{
			name: "Context Lines",
			src:  "let a = 1;\nlet b = a + \"x\";\nprint(b);",
			want: "TYPE ERROR at 2:9: Type mismatch: Int and String\n\n" +
				"   1 | let a = 1;\n" +
				"   2 | let b = a + \"x\";\n" +
				"     |         ^\n" +
				"   3 | print(b);\n",
		},
		{
			name: "Lex Error",
			src:  "let s = \"abc;",
			want: "LEXICAL ERROR at 1:9: Unterminated string literal\n\n" +
				"   1 | let s = \"abc;\n" +
				"     |         ^\n",
		},
		{
			name: "Codegen Error",
			src:  "let x: Int = y;",
			want: "CODEGEN ERROR at 1:14: Undefined variable: y\n\n" +
				"   1 | let x: Int = y;\n" +
				"     |              ^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src, nil)
			if err == nil {
				t.Fatal("Compile() expected error")
			}
			wrapped := WrapErrorWithSource(err, tt.src)
			if got := wrapped.Error(); got != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
			if !errors.Is(wrapped, err) {
				t.Error("wrapped error does not unwrap to the original")
			}
			if Stage(wrapped) != Stage(err) {
				t.Errorf("Stage(wrapped) = %q, want %q", Stage(wrapped), Stage(err))
			}
		})
	}
}

func TestWrapErrorWithSourcePassThrough(t *testing.T) {
	plain := errors.New("boom")
	if got := WrapErrorWithSource(plain, "x"); got != plain {
		t.Errorf("non-compiler error was rewrapped: %v", got)
	}
	unpositioned := &TypeError{Msg: "Unknown node type"}
	if got := WrapErrorWithSource(unpositioned, "x"); got != error(unpositioned) {
		t.Errorf("unpositioned error was rewrapped: %v", got)
	}
}

func TestWrapErrorWithSourceClampsLine(t *testing.T) {
	err := &ParseError{Line: 5, Col: 1, Msg: "Unexpected token: EOF"}
	want := "PARSE ERROR at 1:1: Unexpected token: EOF\n\n" +
		"   1 | x\n" +
		"     | ^\n"
	if got := WrapErrorWithSource(err, "x").Error(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
