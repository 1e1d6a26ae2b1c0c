package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/peterh/liner"

	"toyc/pkg/compiler"
	"toyc/pkg/eval"
	"toyc/pkg/sink"
)

const (
	historyFile = ".toyc_history"
	prompt      = "toy> "
)

const helpText = `Enter let declarations and print statements, one per line.
The whole session is recompiled after every line.

  :c      show the generated C for the session
  :ast    pretty-print the session's AST
  :w FILE write the generated C for the session to FILE
  :eval   evaluate the last accepted line
  :reset  forget the session
  :quit   exit
`

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

// session is the source accepted so far. A line is only kept if the whole
// session still compiles with it.
type session struct {
	lines []string
	code  string
}

func (s *session) source() string { return strings.Join(s.lines, "\n") }

// add compiles the session extended by line and keeps line on success.
func (s *session) add(line string) error {
	candidate := append(append([]string(nil), s.lines...), line)
	src := strings.Join(candidate, "\n")
	code, err := compiler.Compile(src, nil)
	if err != nil {
		return compiler.WrapErrorWithSource(err, src)
	}
	s.lines = candidate
	s.code = code
	return nil
}

func (s *session) parse() (*compiler.Program, error) {
	tokens, err := compiler.Lex(s.source())
	if err != nil {
		return nil, err
	}
	return compiler.Parse(tokens)
}

// evalLast evaluates only the most recent line; the evaluator keeps no
// bindings, so earlier lines could not contribute anyway.
func (s *session) evalLast(out io.Writer) (eval.Value, error) {
	if len(s.lines) == 0 {
		return eval.Void, nil
	}
	tokens, err := compiler.Lex(s.lines[len(s.lines)-1])
	if err != nil {
		return eval.Void, err
	}
	prog, err := compiler.Parse(tokens)
	if err != nil {
		return eval.Void, err
	}
	return eval.New(out).EvalProgram(prog)
}

// write compiles the session into path.
func (s *session) write(path string) error {
	if len(s.lines) == 0 {
		return errors.New("nothing to write: the session is empty")
	}
	return compiler.CompileTo(s.source(), sink.File{Path: path}, nil)
}

// handle runs one line of input and reports whether the REPL should exit.
func (s *session) handle(input string, out, errOut io.Writer) bool {
	input = strings.TrimSpace(input)
	if path, ok := strings.CutPrefix(input, ":w "); ok {
		path = strings.TrimSpace(path)
		if err := s.write(path); err != nil {
			fmt.Fprintln(errOut, red(err.Error()))
			return false
		}
		fmt.Fprintln(out, green("C code saved to "+path))
		return false
	}
	switch input {
	case "":
		return false
	case ":quit", ":q":
		return true
	case ":help", ":h":
		fmt.Fprint(out, helpText)
	case ":reset":
		*s = session{}
		fmt.Fprintln(out, "session cleared")
	case ":c":
		if s.code == "" {
			fmt.Fprintln(out, "(empty session)")
			return false
		}
		fmt.Fprint(out, s.code)
	case ":ast":
		prog, err := s.parse()
		if err != nil {
			fmt.Fprintln(errOut, red(err.Error()))
			return false
		}
		fmt.Fprintf(out, "%# v\n", pretty.Formatter(prog))
	case ":eval":
		v, err := s.evalLast(out)
		if err != nil {
			fmt.Fprintln(errOut, red(err.Error()))
			return false
		}
		fmt.Fprintln(out, green(fmt.Sprintf("%s : %s", v, v.Type)))
	default:
		if strings.HasPrefix(input, ":") {
			fmt.Fprintln(out, "unknown command. Type :help for a list.")
			return false
		}
		if err := s.add(input); err != nil {
			fmt.Fprintln(errOut, red(err.Error()))
		}
	}
	return false
}

func main() {
	fmt.Println("toyc REPL. Type :help for commands, Ctrl+D to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	var s session
	for {
		input, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil { // io.EOF on Ctrl+D
			fmt.Println()
			return
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(input)
		}
		if s.handle(input, os.Stdout, os.Stderr) {
			return
		}
	}
}
