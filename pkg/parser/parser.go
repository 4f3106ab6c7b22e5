// Package parser builds a Program syntax tree from a token stream by
// recursive descent with one token of lookahead. There is no error
// recovery: the first syntax error aborts the parse.
package parser

import (
	"fmt"

	"github.com/ikurotime/husk/pkg/ast"
	"github.com/ikurotime/husk/pkg/reporter"
	"github.com/ikurotime/husk/pkg/token"
)

type ErrorKind int

const (
	ExpectedToken ErrorKind = iota
	ExpectedExpression
	UnexpectedEOF
	MissingMainFunction
	TopLevelNotAllowed
)

// Error is a parse failure. Pos is nil when the error has no usable
// position (e.g. the token stream ended early). The message already
// includes the source context rendered by the reporter.
type Error struct {
	Kind     ErrorKind
	Expected token.TokenType // set when Kind is ExpectedToken
	Pos      *token.Pos
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

type Parser struct {
	tokens  []token.Token
	current int

	reporter *reporter.Reporter
}

func New(tokens []token.Token, source string, filename string) *Parser {
	return &Parser{
		tokens:   tokens,
		reporter: reporter.New(source, filename),
	}
}

// Parse consumes the whole token stream and validates that the program
// defines a `main` function.
func Parse(tokens []token.Token, source string, filename string) (*ast.Program, error) {
	return New(tokens, source, filename).Parse()
}

func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}

	for !p.isAtEnd() {
		t := p.peek()
		if t.Type != token.FN {
			return nil, &Error{
				Kind: TopLevelNotAllowed,
				Pos:  &t.Pos,
				Message: p.reporter.FormatAt(
					"Expected function definition (top-level statements not allowed)",
					t.Pos.Line, t.Pos.Column,
				),
			}
		}
		p.current++

		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		program.Functions = append(program.Functions, *fn)
	}

	if !program.HasFunction("main") {
		return nil, &Error{
			Kind:    MissingMainFunction,
			Message: p.reporter.Format("Program must have a 'main' function"),
		}
	}

	return program, nil
}

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens)
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

// expect consumes the next token if it has the wanted type, and otherwise
// fails with a message built from context, e.g. "Expected ';' after let".
func (p *Parser) expect(typ token.TokenType, context string) (token.Token, error) {
	if p.isAtEnd() {
		return token.Token{}, &Error{
			Kind:     UnexpectedEOF,
			Expected: typ,
			Message:  p.reporter.Format(fmt.Sprintf("Expected %s at end of input", context)),
		}
	}

	t := p.peek()
	if t.Type != typ {
		return token.Token{}, &Error{
			Kind:     ExpectedToken,
			Expected: typ,
			Pos:      &t.Pos,
			Message: p.reporter.FormatAt(
				fmt.Sprintf("Expected %s, got %s", context, t.Type),
				t.Pos.Line, t.Pos.Column,
			),
		}
	}

	p.current++
	return t, nil
}

func (p *Parser) expectSemicolon(context string) error {
	_, err := p.expect(token.SEMICOLON, fmt.Sprintf("semicolon after %s", context))
	return err
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	name, err := p.expect(token.IDENTIFIER, "function name after 'fn'")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LEFT_PAREN, "'('"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHT_PAREN, "')' (parameters are not supported)"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LEFT_BRACE, "'{' to start function body"); err != nil {
		return nil, err
	}

	var body []ast.Statement
	for !p.isAtEnd() && p.peek().Type != token.RIGHT_BRACE {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	if _, err := p.expect(token.RIGHT_BRACE, "'}' to end function body"); err != nil {
		return nil, err
	}

	return &ast.Function{Name: name, Body: body}, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	t := p.peek()

	switch t.Type {
	case token.LET:
		p.current++
		ident, err := p.expect(token.IDENTIFIER, "identifier after 'let'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQUAL, "'=' after identifier"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectSemicolon("let"); err != nil {
			return nil, err
		}
		return &ast.LetStatement{Identifier: ident, Value: value}, nil

	case token.PRINT:
		p.current++
		if _, err := p.expect(token.LEFT_PAREN, "'(' after 'print'"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHT_PAREN, "')'"); err != nil {
			return nil, err
		}
		if err := p.expectSemicolon("print"); err != nil {
			return nil, err
		}
		return &ast.PrintStatement{Value: value, PrintToken: t}, nil

	case token.RETURN:
		p.current++
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectSemicolon("return"); err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Value: value, ReturnToken: t}, nil

	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectSemicolon("expression"); err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Expression: expr}, nil
	}
}

// parseExpression parses `primary (op expr)?`. The right operand of an
// operator is a full expression, which makes chains like `a - b - c` nest
// to the right. That associativity is part of the language.
func (p *Parser) parseExpression() (ast.Expression, error) {
	primary := p.parsePrimary()
	if primary == nil {
		if p.isAtEnd() {
			return nil, &Error{
				Kind:    ExpectedExpression,
				Message: p.reporter.Format("Expected expression"),
			}
		}
		t := p.peek()
		return nil, &Error{
			Kind:    ExpectedExpression,
			Pos:     &t.Pos,
			Message: p.reporter.FormatAt("Expected expression", t.Pos.Line, t.Pos.Column),
		}
	}

	if !p.isAtEnd() && p.peek().Type.IsBinaryOperator() {
		op := p.peek()
		p.current++

		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		return &ast.BinaryExpression{Left: *primary, Operator: op, Right: rhs}, nil
	}

	return primary, nil
}

// parsePrimary returns nil when the next token starts no expression; the
// caller decides whether that is an error.
func (p *Parser) parsePrimary() *ast.PrimaryExpression {
	if p.isAtEnd() {
		return nil
	}

	t := p.peek()
	switch t.Type {
	case token.INT_LIT:
		p.current++
		return &ast.PrimaryExpression{Literal: &t}
	case token.IDENTIFIER:
		p.current++
		return &ast.PrimaryExpression{Identifier: &t}
	}

	return nil
}
