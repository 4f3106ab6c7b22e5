package main

import (
	"fmt"
	"log"

	"github.com/alecthomas/repr"

	"github.com/ikurotime/husk/pkg/gen"
	"github.com/ikurotime/husk/pkg/lexer"
	"github.com/ikurotime/husk/pkg/parser"
)

func main() {
	code := `
fn square() {
	let n = 7;
	return n * n;
}

fn main() {
	let x = 5;
	let y = x + 3 * 2;
	print(y);
	return 0;
}
`

	tokens, err := lexer.Lex(code, "playground.hk")
	if err != nil {
		log.Fatal(err)
	}

	program, err := parser.Parse(tokens, code, "playground.hk")
	if err != nil {
		log.Fatal(err)
	}

	repr.Println(program)

	ir, err := gen.LLVM(program)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(ir)
}
