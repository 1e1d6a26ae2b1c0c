package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"

	"toyc/pkg/compiler"
)

const testSource = `let x = 3 + 4;
let y: Float = x * 1.5;
print(-y + 2);
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	// Lex
	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, compiler.WrapErrorWithSource(err, src))
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	// Parse
	prog, err := compiler.Parse(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, compiler.WrapErrorWithSource(err, src))
		os.Exit(1)
	}

	fmt.Println("AST")
	fmt.Print(prog)
	fmt.Println()
	fmt.Printf("%# v\n\n", pretty.Formatter(prog))

	// Code generation
	cg := compiler.NewCodeGen()
	code, err := cg.Generate(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, compiler.WrapErrorWithSource(err, src))
		os.Exit(1)
	}

	fmt.Println("Generated C")
	fmt.Print(code)
	fmt.Println()
	fmt.Print(cg.Scope())
}
