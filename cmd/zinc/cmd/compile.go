package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/zinc/internal/bytecode"
	"github.com/cwbudde/zinc/internal/lexer"
	"github.com/cwbudde/zinc/internal/parser"
	"github.com/spf13/cobra"
)

var (
	outputFile     string
	disassemble    bool
	compileVerbose bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Zinc file to persisted bytecode",
	Long: `Compile a Zinc program to its intermediate representation and save
it as a .znir file.

The persisted IR can be loaded and run without re-parsing the source,
and --disassemble prints the textual listing alongside compilation.

Examples:
  # Compile a script to bytecode
  zinc compile program.zn

  # Compile with a custom output file
  zinc compile program.zn -o out.znir

  # Compile and show disassembled bytecode
  zinc compile program.zn --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.znir)")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "show disassembled bytecode after compilation")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	l := lexer.New(input)
	tokens := l.Tokenize()

	p := parser.New(tokens, input, filename)
	program, cerr := p.Parse()
	if cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("parsing failed")
	}

	compiler := bytecode.NewCompiler(input, filename)
	prog, cerr := compiler.Compile(program)
	if cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("bytecode compilation failed")
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Bytecode compilation successful\n")
		fmt.Fprintf(os.Stderr, "  Functions: %d\n", len(prog.FunctionOrder))
		fmt.Fprintf(os.Stderr, "  Structs:   %d\n", len(prog.StructOrder))
	}

	if disassemble {
		fmt.Fprintf(os.Stderr, "\n== Disassembled bytecode (%s) ==\n", filename)
		fmt.Fprintln(os.Stderr, bytecode.Disassemble(prog))
	}

	outFile := outputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".znir"
		} else {
			outFile = filename + ".znir"
		}
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outFile, err)
	}
	defer out.Close()

	if err := bytecode.Serialize(prog, out); err != nil {
		return fmt.Errorf("failed to serialize bytecode: %w", err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Bytecode written to %s\n", outFile)
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}

	return nil
}
