package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// LexError is returned by Lex on the first malformed construct.
type LexError struct {
	Line, Col int
	Msg       string
}

func (e *LexError) Error() string { return formatError("lex", e.Line, e.Col, e.Msg) }

// ParseError is returned by Parse on the first grammar violation.
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string { return formatError("parse", e.Line, e.Col, e.Msg) }

// TypeError is returned when an expression cannot be given a static type.
type TypeError struct {
	Line, Col int
	Msg       string
}

func (e *TypeError) Error() string { return formatError("type", e.Line, e.Col, e.Msg) }

// CodegenError is returned by Generate when the AST cannot be rendered.
type CodegenError struct {
	Line, Col int
	Msg       string
}

func (e *CodegenError) Error() string { return formatError("codegen", e.Line, e.Col, e.Msg) }

func formatError(stage string, line, col int, msg string) string {
	if line <= 0 {
		return fmt.Sprintf("%s error: %s", stage, msg)
	}
	return fmt.Sprintf("%s error at %d:%d: %s", stage, line, col, msg)
}

func newTypeError(pos Pos, format string, args ...any) *TypeError {
	return &TypeError{Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)}
}

func newCodegenError(pos Pos, format string, args ...any) *CodegenError {
	return &CodegenError{Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)}
}

// Stage names the pipeline stage that produced err, or "" if err did not
// come from the compiler.
func Stage(err error) string {
	var (
		lexErr   *LexError
		parseErr *ParseError
		typeErr  *TypeError
		genErr   *CodegenError
	)
	switch {
	case errors.As(err, &lexErr):
		return "lex"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &typeErr):
		return "type"
	case errors.As(err, &genErr):
		return "codegen"
	}
	return ""
}

// WrapErrorWithSource renders positioned compiler errors as a snippet of src
// with a caret under the offending column:
//
//	PARSE ERROR at 1:8: Expected ')' after print argument
//
//	   1 | print(1
//	     |        ^
//
// Errors without a position, and errors from elsewhere, are returned as is.
func WrapErrorWithSource(err error, src string) error {
	var (
		header    string
		line, col int
		msg       string
	)
	var (
		lexErr   *LexError
		parseErr *ParseError
		typeErr  *TypeError
		genErr   *CodegenError
	)
	switch {
	case errors.As(err, &lexErr):
		header, line, col, msg = "LEXICAL ERROR", lexErr.Line, lexErr.Col, lexErr.Msg
	case errors.As(err, &parseErr):
		header, line, col, msg = "PARSE ERROR", parseErr.Line, parseErr.Col, parseErr.Msg
	case errors.As(err, &typeErr):
		header, line, col, msg = "TYPE ERROR", typeErr.Line, typeErr.Col, typeErr.Msg
	case errors.As(err, &genErr):
		header, line, col, msg = "CODEGEN ERROR", genErr.Line, genErr.Col, genErr.Msg
	default:
		return err
	}
	if line <= 0 {
		return err
	}
	return &snippetError{err: err, text: snippet(src, header, line, col, msg)}
}

// snippetError keeps the original error reachable through errors.As.
type snippetError struct {
	err  error
	text string
}

func (e *snippetError) Error() string { return e.text }
func (e *snippetError) Unwrap() error { return e.err }

// snippet shows at most one line of context on each side. Coordinates are
// clamped to the source bounds.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
