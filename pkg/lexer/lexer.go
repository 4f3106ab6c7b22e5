// Package lexer turns Husk source text into a token stream.
//
// Tokens are recognized by a fixed, ordered list of recognizers tried at
// each position: keywords first (so `let` is never lexed as an identifier),
// then single-character punctuation, integer literals, and identifiers.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ikurotime/husk/pkg/reporter"
	"github.com/ikurotime/husk/pkg/token"
)

type ErrorKind int

const (
	UnexpectedCharacter ErrorKind = iota
	UnexpectedEOF
)

// Error is a lexing failure. The message already includes the source
// context rendered by the reporter.
type Error struct {
	Kind    ErrorKind
	Pos     token.Pos
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Lexer struct {
	source string
	index  int
	line   int
	column int

	reporter    *reporter.Reporter
	recognizers []recognizer
}

// A recognizer tries to lex one kind of token. matches is a cheap
// predicate; lex consumes the token and reports false if the match turned
// out to be invalid after all (e.g. a keyword running into an identifier),
// in which case the next recognizer is tried.
type recognizer struct {
	matches func(l *Lexer) bool
	lex     func(l *Lexer) (token.Token, bool)
}

func New(source string, filename string) *Lexer {
	return &Lexer{
		source:      source,
		line:        1,
		column:      1,
		reporter:    reporter.New(source, filename),
		recognizers: newRecognizers(),
	}
}

// Lex tokenizes source in one call.
func Lex(source string, filename string) ([]token.Token, error) {
	return New(source, filename).Tokenize()
}

func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token

	for !l.isAtEnd() {
		if l.skipWhitespace() {
			continue
		}

		t, err := l.lexNext()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}

	return tokens, nil
}

func (l *Lexer) isAtEnd() bool {
	return l.index >= len(l.source)
}

func (l *Lexer) peek() byte {
	return l.source[l.index]
}

// advance consumes one character and keeps the column counter in step.
// Newlines are consumed by skipWhitespace, never here.
func (l *Lexer) advance() byte {
	c := l.source[l.index]
	l.index++
	l.column++
	return c
}

func (l *Lexer) pos() token.Pos {
	return token.Pos{Line: l.line, Column: l.column}
}

func (l *Lexer) skipWhitespace() bool {
	c := l.peek()
	if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
		return false
	}

	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.index++
	return true
}

func (l *Lexer) lexNext() (token.Token, error) {
	if l.isAtEnd() {
		return token.Token{}, &Error{
			Kind:    UnexpectedEOF,
			Pos:     l.pos(),
			Message: l.reporter.FormatAt("Unexpected end of input", l.line, l.column),
		}
	}

	for _, r := range l.recognizers {
		if !r.matches(l) {
			continue
		}
		if t, ok := r.lex(l); ok {
			return t, nil
		}
	}

	c := l.peek()
	return token.Token{}, &Error{
		Kind:    UnexpectedCharacter,
		Pos:     l.pos(),
		Message: l.reporter.FormatAt(fmt.Sprintf("Unexpected character '%c'", c), l.line, l.column),
	}
}

// newRecognizers builds the recognizer list. The order is part of the
// language: keywords before identifiers, punctuation before nothing in
// particular, literals and identifiers last.
func newRecognizers() []recognizer {
	var rs []recognizer

	for _, kw := range token.Keywords {
		rs = append(rs, keywordRecognizer(kw.Spelling, kw.Type))
	}

	for _, p := range token.Punctuation {
		rs = append(rs, punctuationRecognizer(p.Char, p.Type))
	}

	rs = append(rs, recognizer{
		matches: func(l *Lexer) bool { return isDigit(l.peek()) },
		lex:     (*Lexer).lexIntLit,
	})
	rs = append(rs, recognizer{
		matches: func(l *Lexer) bool { return isAlpha(l.peek()) },
		lex:     (*Lexer).lexIdent,
	})

	return rs
}

func keywordRecognizer(spelling string, typ token.TokenType) recognizer {
	return recognizer{
		matches: func(l *Lexer) bool {
			if !strings.HasPrefix(l.source[l.index:], spelling) {
				return false
			}
			// Reject when the keyword is really the prefix of an
			// identifier, e.g. `lettuce`.
			rest := l.index + len(spelling)
			return rest >= len(l.source) || !isAlphaNumeric(l.source[rest])
		},
		lex: func(l *Lexer) (token.Token, bool) {
			start := l.pos()
			for range spelling {
				l.advance()
			}
			return token.Token{Lexeme: spelling, Type: typ, Pos: start}, true
		},
	}
}

func punctuationRecognizer(c byte, typ token.TokenType) recognizer {
	return recognizer{
		matches: func(l *Lexer) bool { return l.peek() == c },
		lex: func(l *Lexer) (token.Token, bool) {
			start := l.pos()
			l.advance()
			return token.Token{Lexeme: string(c), Type: typ, Pos: start}, true
		},
	}
}

func (l *Lexer) lexIntLit() (token.Token, bool) {
	start := l.pos()
	begin := l.index
	for !l.isAtEnd() && isDigit(l.peek()) {
		l.advance()
	}
	return token.Token{
		Lexeme: l.source[begin:l.index],
		Type:   token.INT_LIT,
		Pos:    start,
	}, true
}

func (l *Lexer) lexIdent() (token.Token, bool) {
	start := l.pos()
	begin := l.index
	l.advance()
	for !l.isAtEnd() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	return token.Token{
		Lexeme: l.source[begin:l.index],
		Type:   token.IDENTIFIER,
		Pos:    start,
	}, true
}

func isDigit(b byte) bool {
	return unicode.IsDigit(rune(b))
}

func isAlpha(b byte) bool {
	return unicode.IsLetter(rune(b))
}

func isAlphaNumeric(b byte) bool {
	return isDigit(b) || isAlpha(b)
}
