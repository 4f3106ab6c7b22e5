// Package ast defines the syntax tree the parser produces.
//
// Expressions are deliberately lopsided: the left operand of a binary
// expression is always a primary, while the right operand is a full
// expression. Chained operators therefore nest to the right, so
// `1 + 2 * 3` parses as `1 + (2 * 3)`.
package ast

import (
	"github.com/ikurotime/husk/pkg/token"
)

type Program struct {
	Functions []Function
}

// HasFunction reports whether a function with the given name is defined.
func (p *Program) HasFunction(name string) bool {
	for _, f := range p.Functions {
		if f.Name.Lexeme == name {
			return true
		}
	}
	return false
}

type Function struct {
	Name token.Token
	Body []Statement
}

type Statement interface {
	isStatement()
}

type LetStatement struct {
	Identifier token.Token
	Value      Expression
}

type PrintStatement struct {
	Value Expression

	PrintToken token.Token
}

type ReturnStatement struct {
	Value Expression

	ReturnToken token.Token
}

type ExpressionStatement struct {
	Expression Expression
}

func (*LetStatement) isStatement()        {}
func (*PrintStatement) isStatement()      {}
func (*ReturnStatement) isStatement()     {}
func (*ExpressionStatement) isStatement() {}

type Expression interface {
	isExpression()
	ErrorToken() token.Token
}

// PrimaryExpression is an integer literal or a variable reference; exactly
// one of the two tokens is set.
type PrimaryExpression struct {
	Literal    *token.Token
	Identifier *token.Token
}

type BinaryExpression struct {
	Left     PrimaryExpression
	Operator token.Token
	Right    Expression
}

func (*PrimaryExpression) isExpression() {}
func (*BinaryExpression) isExpression()  {}

func (p *PrimaryExpression) ErrorToken() token.Token {
	if p.Literal != nil {
		return *p.Literal
	}
	return *p.Identifier
}

func (b *BinaryExpression) ErrorToken() token.Token {
	return b.Operator
}
