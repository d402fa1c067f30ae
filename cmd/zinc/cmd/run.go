package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/zinc/internal/bytecode"
	"github.com/cwbudde/zinc/internal/lexer"
	"github.com/cwbudde/zinc/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
	seed     int64
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Zinc program",
	Long: `Compile a Zinc program to bytecode and execute it on the stack
machine.

Examples:
  # Run a script file
  zinc run program.zn

  # Run inline source code
  zinc run -e "to do the main thing: say 5 end"

  # Run with a dump of the parsed structure (for debugging)
  zinc run --dump-ast program.zn`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed structure (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print the call stack alongside any runtime error")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "seed for the random number generator (default: current time)")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	tokens := l.Tokenize()

	p := parser.New(tokens, input, filename)
	program, cerr := p.Parse()
	if cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		dumpProgram(program)
		fmt.Println()
	}

	compiler := bytecode.NewCompiler(input, filename)
	prog, cerr := compiler.Compile(program)
	if cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("compilation failed")
	}

	rngSeed := seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	vm := bytecode.NewVM(prog, os.Stdout, os.Stdin, rngSeed)
	code, rerr := vm.Run(prog.EntryFunction)
	if rerr != nil {
		fmt.Fprintln(os.Stderr, rerr.Error())
		if trace {
			if st := vm.LastStack(); len(st) > 0 {
				fmt.Fprintln(os.Stderr, st.String())
			}
		}
		return fmt.Errorf("execution failed")
	}

	if code != 0 {
		os.Exit(code)
	}

	return nil
}
