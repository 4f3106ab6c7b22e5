package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ikurotime/husk/pkg/ast"
	"github.com/ikurotime/husk/pkg/lexer"
	"github.com/ikurotime/husk/pkg/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Lex(src, "test.hk")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	program, err := Parse(tokens, src, "test.hk")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return program
}

func parseErr(t *testing.T, src string) *Error {
	t.Helper()
	tokens, err := lexer.Lex(src, "test.hk")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	_, err = Parse(tokens, src, "test.hk")
	if err == nil {
		t.Fatalf("expected parse error for source:\n%s", src)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *parser.Error, got %T", err)
	}
	return perr
}

// mainBody parses a program consisting only of main and returns its
// statement list.
func mainBody(t *testing.T, src string) []ast.Statement {
	t.Helper()
	program := mustParse(t, src)
	if len(program.Functions) != 1 {
		t.Fatalf("want 1 function, got %d", len(program.Functions))
	}
	return program.Functions[0].Body
}

func asPrimary(t *testing.T, expr ast.Expression) *ast.PrimaryExpression {
	t.Helper()
	p, ok := expr.(*ast.PrimaryExpression)
	if !ok {
		t.Fatalf("want *ast.PrimaryExpression, got %T", expr)
	}
	return p
}

func TestRightAssociativeExpression(t *testing.T) {
	// 1+2*3 must parse as 1+(2*3): the right operand of an operator is a
	// full expression, never the other way around.
	body := mainBody(t, "fn main(){return 1+2*3;}")

	ret, ok := body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("want *ast.ReturnStatement, got %T", body[0])
	}

	outer, ok := ret.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("want binary expression, got %T", ret.Value)
	}
	if outer.Operator.Type != token.PLUS {
		t.Fatalf("want outer operator '+', got %v", outer.Operator.Type)
	}
	if outer.Left.Literal == nil || outer.Left.Literal.Lexeme != "1" {
		t.Fatalf("want outer lhs literal 1, got %+v", outer.Left)
	}

	inner, ok := outer.Right.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("want nested binary rhs, got %T", outer.Right)
	}
	if inner.Operator.Type != token.STAR {
		t.Fatalf("want inner operator '*', got %v", inner.Operator.Type)
	}
	if inner.Left.Literal == nil || inner.Left.Literal.Lexeme != "2" {
		t.Fatalf("want inner lhs literal 2, got %+v", inner.Left)
	}
	rhs := asPrimary(t, inner.Right)
	if rhs.Literal == nil || rhs.Literal.Lexeme != "3" {
		t.Fatalf("want inner rhs literal 3, got %+v", rhs)
	}
}

func TestChainedSameOperatorNestsRight(t *testing.T) {
	body := mainBody(t, "fn main(){return 1-2-3;}")

	ret := body[0].(*ast.ReturnStatement)
	outer := ret.Value.(*ast.BinaryExpression)
	if outer.Left.Literal.Lexeme != "1" {
		t.Fatalf("want outer lhs 1, got %s", outer.Left.Literal.Lexeme)
	}
	inner, ok := outer.Right.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("want 1-(2-3), got rhs %T", outer.Right)
	}
	if inner.Left.Literal.Lexeme != "2" {
		t.Fatalf("want inner lhs 2, got %s", inner.Left.Literal.Lexeme)
	}
}

func TestStatementForms(t *testing.T) {
	body := mainBody(t, `fn main(){
	let x = 5;
	print(x);
	x + 1;
	return x;
}`)

	if len(body) != 4 {
		t.Fatalf("want 4 statements, got %d", len(body))
	}

	let, ok := body[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("statement 0: want let, got %T", body[0])
	}
	if let.Identifier.Lexeme != "x" {
		t.Fatalf("want binding of x, got %s", let.Identifier.Lexeme)
	}

	if _, ok := body[1].(*ast.PrintStatement); !ok {
		t.Fatalf("statement 1: want print, got %T", body[1])
	}
	if _, ok := body[2].(*ast.ExpressionStatement); !ok {
		t.Fatalf("statement 2: want expression statement, got %T", body[2])
	}
	if _, ok := body[3].(*ast.ReturnStatement); !ok {
		t.Fatalf("statement 3: want return, got %T", body[3])
	}
}

func TestMultipleFunctions(t *testing.T) {
	program := mustParse(t, "fn helper(){return 1;} fn main(){return 2;}")

	if len(program.Functions) != 2 {
		t.Fatalf("want 2 functions, got %d", len(program.Functions))
	}
	if program.Functions[0].Name.Lexeme != "helper" {
		t.Fatalf("want first function helper, got %s", program.Functions[0].Name.Lexeme)
	}
}

func TestMissingMainFunction(t *testing.T) {
	cases := []string{
		"",
		"fn helper(){return 1;}",
		"fn foo(){} fn bar(){} fn baz(){}",
	}

	for _, src := range cases {
		perr := parseErr(t, src)
		if perr.Kind != MissingMainFunction {
			t.Errorf("source %q: want MissingMainFunction, got kind %d", src, perr.Kind)
		}
	}
}

func TestTopLevelStatementsNotAllowed(t *testing.T) {
	perr := parseErr(t, "let x = 1;")
	if perr.Kind != TopLevelNotAllowed {
		t.Fatalf("want TopLevelNotAllowed, got kind %d", perr.Kind)
	}
	if perr.Pos == nil || perr.Pos.Line != 1 || perr.Pos.Column != 1 {
		t.Fatalf("want error at 1:1, got %v", perr.Pos)
	}
	if !strings.Contains(perr.Message, "top-level statements not allowed") {
		t.Fatalf("unexpected message: %s", perr.Message)
	}
}

func TestParametersNotSupported(t *testing.T) {
	perr := parseErr(t, "fn main(x){}")
	if perr.Kind != ExpectedToken {
		t.Fatalf("want ExpectedToken, got kind %d", perr.Kind)
	}
	if perr.Expected != token.RIGHT_PAREN {
		t.Fatalf("want expected ')', got %v", perr.Expected)
	}
}

func TestMissingSemicolon(t *testing.T) {
	cases := []struct {
		src     string
		context string
	}{
		{"fn main(){let x = 1}", "semicolon after let"},
		{"fn main(){print(1)}", "semicolon after print"},
		{"fn main(){return 1}", "semicolon after return"},
		{"fn main(){1 + 2}", "semicolon after expression"},
	}

	for _, c := range cases {
		perr := parseErr(t, c.src)
		if perr.Kind != ExpectedToken || perr.Expected != token.SEMICOLON {
			t.Errorf("source %q: want missing ';' error, got %+v", c.src, perr)
			continue
		}
		if !strings.Contains(perr.Message, c.context) {
			t.Errorf("source %q: want message naming %q, got: %s", c.src, c.context, perr.Message)
		}
	}
}

func TestExpectedExpression(t *testing.T) {
	perr := parseErr(t, "fn main(){let x = ;}")
	if perr.Kind != ExpectedExpression {
		t.Fatalf("want ExpectedExpression, got kind %d", perr.Kind)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	cases := []string{
		"fn main(",
		"fn main()",
		"fn main(){",
		"fn main(){let x = 1;",
		"fn",
	}

	for _, src := range cases {
		perr := parseErr(t, src)
		if perr.Kind != UnexpectedEOF {
			t.Errorf("source %q: want UnexpectedEOF, got kind %d", src, perr.Kind)
		}
	}
}

func TestErrorCarriesPosition(t *testing.T) {
	perr := parseErr(t, "fn main(){\nlet = 1;\n}")
	if perr.Kind != ExpectedToken || perr.Expected != token.IDENTIFIER {
		t.Fatalf("want missing identifier error, got %+v", perr)
	}
	if perr.Pos == nil || perr.Pos.Line != 2 {
		t.Fatalf("want error on line 2, got %v", perr.Pos)
	}
	if !strings.Contains(perr.Message, "^") {
		t.Fatalf("want caret in rendered message, got: %s", perr.Message)
	}
}
