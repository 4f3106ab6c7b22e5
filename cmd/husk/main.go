package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/ikurotime/husk/pkg/ast"
	"github.com/ikurotime/husk/pkg/gen"
	"github.com/ikurotime/husk/pkg/lexer"
	"github.com/ikurotime/husk/pkg/parser"
)

var CLANG_EXECUTABLE_PATH = "clang"

const historyFile = ".husk_history"

func compile(source string, filename string) (string, error) {
	tokens, err := lexer.Lex(source, filename)
	if err != nil {
		return "", err
	}

	program, err := parser.Parse(tokens, source, filename)
	if err != nil {
		return "", err
	}

	return gen.LLVM(program)
}

func parseFile(filename string) (*ast.Program, string, error) {
	code, err := ioutil.ReadFile(filename)
	if err != nil {
		log.Fatalf("Failed while attempting to read source file.\n%s", err.Error())
	}
	source := string(code)

	tokens, err := lexer.Lex(source, filename)
	if err != nil {
		return nil, source, err
	}

	program, err := parser.Parse(tokens, source, filename)
	return program, source, err
}

func genIRFromFile(filename string) (string, error) {
	code, err := ioutil.ReadFile(filename)
	if err != nil {
		log.Fatalf("Failed while attempting to read source file.\n%s", err.Error())
	}

	return compile(string(code), filename)
}

func build(filename string, executableName string) error {
	ir, err := genIRFromFile(filename)
	if err != nil {
		return err
	}

	irFile, err := ioutil.TempFile("", "husk-ir--*.ll")
	if err != nil {
		log.Fatalf("Failed while opening temp file for IR.\n%s", err.Error())
	}
	if _, err := irFile.WriteString(ir); err != nil {
		log.Fatalf("Failed while writing to temp IR file.\n%s", err.Error())
	}
	irFile.Close()

	compileCommand := exec.Command(
		CLANG_EXECUTABLE_PATH,
		irFile.Name(),
		"-o",
		executableName,
	)
	compileCommand.Stderr = os.Stderr
	if err := compileCommand.Run(); err != nil {
		log.Fatalf("Failed while compiling IR with clang.\n%s", err.Error())
	}

	return nil
}

func run(filename string) error {
	executableFile, err := ioutil.TempFile("", "husk-exe--*.out")
	if err != nil {
		log.Fatalf("Failed while opening temp file for executable.\n%s", err.Error())
	}
	executableFile.Close()

	if err := build(filename, executableFile.Name()); err != nil {
		return err
	}

	runCmd := exec.Command(executableFile.Name())
	runCmd.Stdout = os.Stdout
	runCmd.Stderr = os.Stderr
	if err := runCmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The program's own exit status is not a compiler failure.
			os.Exit(exitErr.ExitCode())
		}
		log.Fatalf("Failed to run compiled binary.\n%s", err.Error())
	}

	return nil
}

func repl() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFile
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, historyFile)
	}
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("Husk REPL. Statements accumulate into an implicit main.")
	fmt.Println("Commands: :ir :ast :reset :help :quit. Ctrl+D exits.")

	var statements []string

	programSource := func(stmts []string) string {
		return "fn main() {\n" + strings.Join(stmts, "\n") + "\n}"
	}

	for {
		input, err := line.Prompt("husk> ")
		if err != nil {
			// Ctrl+C aborts the current line, Ctrl+D exits.
			if err == liner.ErrPromptAborted {
				continue
			}
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit":
			return nil
		case ":reset":
			statements = nil
			continue
		case ":help":
			fmt.Println(":ir     print the IR for the accumulated program")
			fmt.Println(":ast    print the parse tree for the accumulated program")
			fmt.Println(":reset  discard all accumulated statements")
			fmt.Println(":quit   exit the REPL")
			continue
		case ":ir":
			ir, err := compile(programSource(statements), "<repl>")
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Print(ir)
			continue
		case ":ast":
			source := programSource(statements)
			tokens, err := lexer.Lex(source, "<repl>")
			if err != nil {
				fmt.Println(err)
				continue
			}
			program, err := parser.Parse(tokens, source, "<repl>")
			if err != nil {
				fmt.Println(err)
				continue
			}
			repr.Println(program)
			continue
		}

		candidate := append(append([]string{}, statements...), input)
		ir, err := compile(programSource(candidate), "<repl>")
		if err != nil {
			fmt.Println(err)
			continue
		}

		statements = candidate
		fmt.Print(ir)
	}
}

func main() {
	var executableOutputFile string

	app := &cli.App{
		Name:  "husk",
		Usage: "A tiny compiled language.",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Builds and immediately runs the provided source file.",
				Action: func(c *cli.Context) error {
					filename := c.Args().First()
					if filename == "" {
						return errors.New("Source file not provided.")
					}
					return run(filename)
				},
			},
			{
				Name:  "build",
				Usage: "Builds the provided source file to an executable.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Value:       "a.out",
						Usage:       "Name of the executable.",
						Destination: &executableOutputFile,
					},
				},
				Action: func(c *cli.Context) error {
					filename := c.Args().First()
					if filename == "" {
						return errors.New("Source file not provided.")
					}
					return build(filename, executableOutputFile)
				},
			},
			{
				Name:  "emit",
				Usage: "Prints the LLVM IR for the provided source file.",
				Action: func(c *cli.Context) error {
					filename := c.Args().First()
					if filename == "" {
						return errors.New("Source file not provided.")
					}
					ir, err := genIRFromFile(filename)
					if err != nil {
						return err
					}
					fmt.Print(ir)
					return nil
				},
			},
			{
				Name:  "tokens",
				Usage: "Dumps the token stream for the provided source file.",
				Action: func(c *cli.Context) error {
					filename := c.Args().First()
					if filename == "" {
						return errors.New("Source file not provided.")
					}
					code, err := ioutil.ReadFile(filename)
					if err != nil {
						log.Fatalf("Failed while attempting to read source file.\n%s", err.Error())
					}
					tokens, err := lexer.Lex(string(code), filename)
					if err != nil {
						return err
					}
					repr.Println(tokens)
					return nil
				},
			},
			{
				Name:  "ast",
				Usage: "Dumps the parse tree for the provided source file.",
				Action: func(c *cli.Context) error {
					filename := c.Args().First()
					if filename == "" {
						return errors.New("Source file not provided.")
					}
					program, _, err := parseFile(filename)
					if err != nil {
						return err
					}
					repr.Println(program)
					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "Starts an interactive session that shows the IR as you type.",
				Action: func(c *cli.Context) error {
					return repl()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
