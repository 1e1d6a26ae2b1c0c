package compiler

import "toyc/pkg/sink"

// Result holds every stage's output for one successful compile.
type Result struct {
	Tokens  []Token
	Program *Program
	Code    string
}

// Build runs Lex, Parse and Generate over src. Milestones are recorded on
// log, which may be nil. The first error from any stage is returned
// unchanged, with no partial result.
func Build(src string, log sink.Logger) (*Result, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	sink.Logf(log, sink.Debug, "lexed %d tokens", len(tokens))

	prog, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	sink.Logf(log, sink.Debug, "parsed %d statements", len(prog.Body))

	code, err := Generate(prog)
	if err != nil {
		return nil, err
	}
	sink.Logf(log, sink.Debug, "generated %d bytes of C", len(code))

	return &Result{Tokens: tokens, Program: prog, Code: code}, nil
}

// Compile is Build reduced to the generated C program.
func Compile(src string, log sink.Logger) (string, error) {
	res, err := Build(src, log)
	if err != nil {
		return "", err
	}
	return res.Code, nil
}

// CompileTo compiles src and hands the result to out. Nothing reaches out
// when compilation fails.
func CompileTo(src string, out sink.Artifact, log sink.Logger) error {
	code, err := Compile(src, log)
	if err != nil {
		return err
	}
	return out.Accept(code)
}
