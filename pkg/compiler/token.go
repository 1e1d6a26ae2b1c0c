package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	NUMBER     // 3, 1.25
	STRING     // "..."
	CHAR       // 'c'
	IDENTIFIER // variable or type name

	// Keywords
	TRUE  // "true"
	FALSE // "false"
	LET   // "let"
	PRINT // "print"

	// Operators
	PLUS        // +
	MINUS       // - (binary)
	UNARY_MINUS // - (prefix, see unaryMinusFollows)
	MULTIPLY    // *
	EQUALS      // =

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	SEMICOLON // ;
	COLON     // :
)

var tokenNames = [...]string{
	EOF:         "EOF",
	NUMBER:      "Number",
	STRING:      "String",
	CHAR:        "Char",
	IDENTIFIER:  "Identifier",
	TRUE:        "True",
	FALSE:       "False",
	LET:         "Let",
	PRINT:       "Print",
	PLUS:        "Plus",
	MINUS:       "Minus",
	UNARY_MINUS: "UnaryMinus",
	MULTIPLY:    "Multiply",
	EQUALS:      "Equals",
	LPAREN:      "LeftParen",
	RPAREN:      "RightParen",
	SEMICOLON:   "Semicolon",
	COLON:       "Colon",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // literal value for NUMBER, STRING, CHAR and IDENTIFIER; symbol otherwise
	Line   int    // 1-based source line
	Col    int    // 1-based column of the first character
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  %d:%d", t.Type, t.Lexeme, t.Line, t.Col)
}
