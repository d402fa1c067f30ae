package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/zinc/internal/ast"
	"github.com/cwbudde/zinc/internal/lexer"
	"github.com/cwbudde/zinc/internal/parser"
	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Zinc program and display its structure",
	Long: `Parse Zinc source code and report the includes, structures, and
functions it declares.

If no file is provided, reads from stdin. Use -e to parse source code
given on the command line. Use --dump-ast to show the full
parsed structure, field by field.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full parsed structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case evalExpr != "":
		input, filename = evalExpr, "<eval>"
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input, filename = string(data), args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input, filename = string(data), "<stdin>"
	}

	l := lexer.New(input)
	tokens := l.Tokenize()

	p := parser.New(tokens, input, filename)
	program, cerr := p.Parse()
	if cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("parsing failed")
	}

	if parseDumpAST {
		fmt.Println("Parsed program:")
		fmt.Println("===============")
		dumpProgram(program)
		return nil
	}

	fmt.Printf("includes:   %d\n", len(program.Includes))
	for _, inc := range program.Includes {
		fmt.Printf("  %s\n", inc.Library)
	}
	fmt.Printf("structures: %d\n", len(program.Structures))
	for _, s := range program.Structures {
		fmt.Printf("  %s (%d field(s))\n", s.Name, len(s.Fields))
	}
	fmt.Printf("functions:  %d\n", len(program.Functions))
	for _, fn := range program.Functions {
		marker := ""
		if fn.IsMain {
			marker = " [main]"
		}
		fmt.Printf("  %s(%d param(s))%s\n", fn.Name, len(fn.Params), marker)
	}

	return nil
}

func dumpProgram(program *ast.Program) {
	for _, inc := range program.Includes {
		fmt.Printf("Include: %s\n", inc.Library)
	}
	for _, s := range program.Structures {
		fmt.Printf("StructDef %s:\n", s.Name)
		for _, f := range s.Fields {
			fmt.Printf("  field %s %s\n", f.Name, describeType(f.Type))
		}
	}
	for _, fn := range program.Functions {
		fmt.Printf("FunctionDef %s(", fn.Name)
		for i, p := range fn.Params {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("%s %s", p.Name, describeType(p.Type))
		}
		fmt.Printf(") -> %s, %d statement(s)\n", describeType(fn.ReturnType), len(fn.Body))
	}
}

func describeType(t *ast.TypeSpec) string {
	if t == nil {
		return "nothing"
	}
	switch {
	case t.IsPointer:
		return "pointer to " + t.BaseType
	case t.IsList:
		return "list of " + t.BaseType
	case t.StructName != "":
		return t.StructName
	default:
		return t.BaseType
	}
}
