package compiler

import (
	"fmt"
	"strconv"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program    = statement* EOF
//	statement  = letDecl | printStmt
//	letDecl    = "let" IDENTIFIER (":" IDENTIFIER)? "=" expression ";"
//	printStmt  = "print" "(" expression ")" ";"
//	expression = term (("+" | "-") term)*
//	term       = factor ("*" factor)*
//	factor     = NUMBER | STRING | CHAR | "true" | "false" | IDENTIFIER
//	           | UNARY_MINUS factor | "(" expression ")"
//
// Binary operators fold to the left. The parser stops at the first error.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			return Token{Type: EOF, Line: last.Line, Col: last.Col}
		}
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

// expect consumes the current token if it matches tt; otherwise it returns
// a *ParseError carrying msg, positioned at the offending token.
func (p *Parser) expect(tt TokenType, msg string) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.errorf(tok, "%s", msg)
	}
	return p.advance(), nil
}

// parseExpression handles + and -.
func (p *Parser) parseExpression() (Expr, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Type != PLUS && tok.Type != MINUS {
			break
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpression{Pos: expr.Position(), Operator: tok.Lexeme, Left: expr, Right: right}
	}

	return expr, nil
}

// parseTerm handles *.
func (p *Parser) parseTerm() (Expr, error) {
	expr, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == MULTIPLY {
		tok := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpression{Pos: expr.Position(), Operator: tok.Lexeme, Left: expr, Right: right}
	}

	return expr, nil
}

// parseFactor handles literals, variables, prefix minus and parenthesised
// expressions.
func (p *Parser) parseFactor() (Expr, error) {
	tok := p.peek()
	pos := Pos{Line: tok.Line, Col: tok.Col}
	switch tok.Type {
	case NUMBER:
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf(tok, "Invalid number literal %q", tok.Lexeme)
		}
		return &NumberLiteral{Pos: pos, Value: val}, nil

	case STRING:
		p.advance()
		return &StringLiteral{Pos: pos, Value: tok.Lexeme}, nil

	case CHAR:
		p.advance()
		return &CharLiteral{Pos: pos, Value: []rune(tok.Lexeme)[0]}, nil

	case TRUE, FALSE:
		p.advance()
		return &BooleanLiteral{Pos: pos, Value: tok.Type == TRUE}, nil

	case IDENTIFIER:
		p.advance()
		return &Identifier{Pos: pos, Name: tok.Lexeme}, nil

	case UNARY_MINUS:
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Pos: pos, Operator: "-", Right: right}, nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "Expected ')' to close parenthesized expression"); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.errorf(tok, "Expected expression, got %s", tok.Type)
	}
}

// parseLet parses  let name (: Type)? = expr ;
func (p *Parser) parseLet() (Stmt, error) {
	letTok := p.advance()

	nameTok, err := p.expect(IDENTIFIER, "Expected identifier after 'let'")
	if err != nil {
		return nil, err
	}

	decl := &LetDeclaration{Pos: Pos{Line: letTok.Line, Col: letTok.Col}, Name: nameTok.Lexeme}

	// The annotation is only checked to be a name here; the resolver decides
	// whether it names a type.
	if p.peek().Type == COLON {
		p.advance()
		typeTok, err := p.expect(IDENTIFIER, "Expected type annotation after ':'")
		if err != nil {
			return nil, err
		}
		decl.Annotation = typeTok.Lexeme
	}

	if _, err := p.expect(EQUALS, "Expected '=' after identifier"); err != nil {
		return nil, err
	}

	decl.Value, err = p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(SEMICOLON, "Expected ';' after let declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

// parsePrint parses  print ( expr ) ;  into a CallExpression.
func (p *Parser) parsePrint() (Stmt, error) {
	printTok := p.advance()

	if _, err := p.expect(LPAREN, "Expected '(' after 'print'"); err != nil {
		return nil, err
	}

	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(RPAREN, "Expected ')' after print argument"); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, "Expected ';' after print statement"); err != nil {
		return nil, err
	}

	return &CallExpression{
		Pos:       Pos{Line: printTok.Line, Col: printTok.Col},
		Callee:    "print",
		Arguments: []Expr{arg},
	}, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case LET:
		return p.parseLet()
	case PRINT:
		return p.parsePrint()
	default:
		return nil, p.errorf(tok, "Unexpected token: %s", tok.Type)
	}
}

// Parse builds a Program from tokens. On the first grammar violation it
// returns a *ParseError and no Program.
func Parse(tokens []Token) (*Program, error) {
	p := NewParser(tokens)
	prog := &Program{}
	for p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
	}
	return prog, nil
}
