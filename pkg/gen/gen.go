package gen

import (
	"github.com/ikurotime/husk/pkg/ast"
	llvmgen "github.com/ikurotime/husk/pkg/gen/llvm"
)

func LLVM(p *ast.Program) (string, error) {
	return llvmgen.Emit(p)
}
