package compiler

import (
	"fmt"
	"unicode"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"let":   LET,
	"print": PRINT,
	"true":  TRUE,
	"false": FALSE,
}

// singleChar maps the one-rune operators and delimiters to their TokenType.
// '-' is absent: it needs the previous token to decide between MINUS and
// UNARY_MINUS.
var singleChar = map[rune]TokenType{
	'+': PLUS,
	'*': MULTIPLY,
	'=': EQUALS,
	'(': LPAREN,
	')': RPAREN,
	';': SEMICOLON,
	':': COLON,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src    []rune
	pos    int // index of the next rune to consume
	line   int // current 1-based source line
	col    int // current 1-based column
	tokens []Token
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) errorf(line, col int, format string, args ...any) *LexError {
	return &LexError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// unaryMinusFollows reports whether a '-' seen now is a prefix minus. The
// rule only looks at the previous token: start of input, '(', '+', '-' and
// '*' make it unary. Anything else, '=' included, makes it binary.
func (l *Lexer) unaryMinusFollows() bool {
	if len(l.tokens) == 0 {
		return true
	}
	switch l.tokens[len(l.tokens)-1].Type {
	case LPAREN, PLUS, MINUS, MULTIPLY:
		return true
	}
	return false
}

// scanIdent collects an identifier or keyword.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos
	for !l.atEnd() && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line, Col: col}
}

// scanNumber collects digits and at most one decimal point. A second '.'
// ends the literal.
func (l *Lexer) scanNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	seenDot := false
	for !l.atEnd() {
		r := l.peek()
		if r == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if !isDigit(r) {
			break
		}
		l.advance()
	}
	return Token{Type: NUMBER, Lexeme: string(l.src[start:l.pos]), Line: line, Col: col}
}

// scanString collects a string literal "...". Characters are taken
// verbatim; there are no escape sequences.
func (l *Lexer) scanString() (Token, error) {
	line, col := l.line, l.col
	l.advance() // opening "
	start := l.pos
	for !l.atEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.atEnd() {
		return Token{}, l.errorf(line, col, "Unterminated string literal")
	}
	val := string(l.src[start:l.pos])
	l.advance() // closing "
	return Token{Type: STRING, Lexeme: val, Line: line, Col: col}, nil
}

// scanChar collects a character literal: exactly one rune between quotes.
func (l *Lexer) scanChar() (Token, error) {
	line, col := l.line, l.col
	l.advance() // opening '
	if l.atEnd() {
		return Token{}, l.errorf(line, col, "Unterminated character literal")
	}
	val := l.advance()
	if l.atEnd() || l.peek() != '\'' {
		return Token{}, l.errorf(line, col, "Unterminated character literal")
	}
	l.advance() // closing '
	return Token{Type: CHAR, Lexeme: string(val), Line: line, Col: col}, nil
}

// nextToken skips whitespace and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		return Token{Type: EOF, Line: l.line, Col: l.col}, nil
	}

	ch := l.peek()
	line, col := l.line, l.col

	switch {
	case isLetter(ch):
		return l.scanIdent(), nil
	case isDigit(ch):
		return l.scanNumber(), nil
	case ch == '"':
		return l.scanString()
	case ch == '\'':
		return l.scanChar()
	case ch == '-':
		l.advance()
		if l.unaryMinusFollows() {
			return Token{Type: UNARY_MINUS, Lexeme: "-", Line: line, Col: col}, nil
		}
		return Token{Type: MINUS, Lexeme: "-", Line: line, Col: col}, nil
	}

	if tt, ok := singleChar[ch]; ok {
		l.advance()
		return Token{Type: tt, Lexeme: string(ch), Line: line, Col: col}, nil
	}
	return Token{}, l.errorf(line, col, "Unexpected character: '%c'", ch)
}

// Lex tokenises src and returns all tokens including the final EOF token.
// On the first malformed construct it returns a *LexError and no tokens.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
