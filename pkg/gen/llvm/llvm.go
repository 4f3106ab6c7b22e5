// Package llvmgen lowers a parsed Program to an LLVM IR module.
//
// Every function gets a single entry block, i32 return type, and one stack
// slot per `let` binding. Integer division lowers to `sdiv`, which
// truncates toward zero; dividing by zero is undefined behavior in the
// emitted program and is deliberately not guarded.
package llvmgen

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ikurotime/husk/pkg/ast"
	"github.com/ikurotime/husk/pkg/token"
)

type ErrorKind int

const (
	DuplicateBinding ErrorKind = iota
	UndefinedVariable
	UnsupportedOperator
)

// Error is a lowering failure. Name holds the offending variable name or
// operator spelling.
type Error struct {
	Kind    ErrorKind
	Name    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// printFormat is the printf contract for `print`: decimal value, newline.
const printFormat = "%d\n\x00"

type generator struct {
	module *ir.Module
	block  *ir.Block

	printf *ir.Func
	format *ir.Global

	// variables maps each `let`-bound name to its stack slot. Reset on
	// every function; there are no globals and no closures.
	variables map[string]*ir.InstAlloca
}

// Gen lowers program into a fresh IR module. Lowering the same program
// twice yields structurally identical modules.
func Gen(program *ast.Program) (*ir.Module, error) {
	g := newGenerator()

	for i := range program.Functions {
		if err := g.genFunction(&program.Functions[i]); err != nil {
			return nil, err
		}
	}

	return g.module, nil
}

// Emit lowers program and renders the module as textual IR.
func Emit(program *ast.Program) (string, error) {
	m, err := Gen(program)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

func newGenerator() *generator {
	m := ir.NewModule()

	printf := m.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	format := m.NewGlobalDef(".fmt_int", constant.NewCharArrayFromString(printFormat))
	format.Linkage = enum.LinkagePrivate

	return &generator{
		module: m,
		printf: printf,
		format: format,
	}
}

func (g *generator) genFunction(fn *ast.Function) error {
	f := g.module.NewFunc(fn.Name.Lexeme, types.I32)
	g.block = f.NewBlock("entry")
	g.variables = make(map[string]*ir.InstAlloca)

	hasReturn := false
	for _, stmt := range fn.Body {
		if _, ok := stmt.(*ast.ReturnStatement); ok {
			hasReturn = true
		}

		if err := g.genStatement(stmt); err != nil {
			if e, ok := err.(*Error); ok {
				return &Error{
					Kind:    e.Kind,
					Name:    e.Name,
					Message: fmt.Sprintf("In function '%s': %s", fn.Name.Lexeme, e.Message),
				}
			}
			return err
		}
	}

	// Every function produces a defined value: without an explicit
	// return the function returns 0.
	if !hasReturn {
		g.block.NewRet(constant.NewInt(types.I32, 0))
	}

	return nil
}

func (g *generator) genStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return g.genLet(s)

	case *ast.PrintStatement:
		val, err := g.genExpression(s.Value)
		if err != nil {
			return err
		}
		g.block.NewCall(g.printf, g.formatPtr(), val)
		return nil

	case *ast.ReturnStatement:
		val, err := g.genExpression(s.Value)
		if err != nil {
			return err
		}
		g.block.NewRet(val)
		return nil

	case *ast.ExpressionStatement:
		_, err := g.genExpression(s.Expression)
		return err
	}

	panic("Statement node has invalid static type.")
}

func (g *generator) genLet(s *ast.LetStatement) error {
	name := s.Identifier.Lexeme

	if _, exists := g.variables[name]; exists {
		return &Error{
			Kind:    DuplicateBinding,
			Name:    name,
			Message: fmt.Sprintf("Variable '%s' is already declared in this scope", name),
		}
	}

	slot := g.block.NewAlloca(types.I32)
	slot.SetName(name)
	g.variables[name] = slot

	val, err := g.genExpression(s.Value)
	if err != nil {
		return err
	}

	g.block.NewStore(val, slot)
	return nil
}

func (g *generator) genExpression(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.PrimaryExpression:
		return g.genPrimary(e)

	case *ast.BinaryExpression:
		lhs, err := g.genPrimary(&e.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := g.genExpression(e.Right)
		if err != nil {
			return nil, err
		}

		switch e.Operator.Type {
		case token.PLUS:
			return g.block.NewAdd(lhs, rhs), nil
		case token.MINUS:
			return g.block.NewSub(lhs, rhs), nil
		case token.STAR:
			return g.block.NewMul(lhs, rhs), nil
		case token.SLASH:
			return g.block.NewSDiv(lhs, rhs), nil
		}

		return nil, &Error{
			Kind:    UnsupportedOperator,
			Name:    e.Operator.Lexeme,
			Message: "Unsupported binary operator",
		}
	}

	panic("Expression node has invalid static type.")
}

func (g *generator) genPrimary(primary *ast.PrimaryExpression) (value.Value, error) {
	if primary.Literal != nil {
		v, err := strconv.ParseInt(primary.Literal.Lexeme, 10, 32)
		if err != nil {
			// The lexer only produces digit runs; overflow is the
			// lone failure mode here.
			panic(fmt.Sprintf("Integer literal out of range: %s", primary.Literal.Lexeme))
		}
		return constant.NewInt(types.I32, v), nil
	}

	name := primary.Identifier.Lexeme
	slot, exists := g.variables[name]
	if !exists {
		return nil, &Error{
			Kind:    UndefinedVariable,
			Name:    name,
			Message: fmt.Sprintf("Undefined variable: %s", name),
		}
	}

	return g.block.NewLoad(types.I32, slot), nil
}

func (g *generator) formatPtr() value.Value {
	return constant.NewGetElementPtr(
		types.NewArray(uint64(len(printFormat)), types.I8),
		g.format,
		constant.NewInt(types.I32, 0),
		constant.NewInt(types.I32, 0),
	)
}
