package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "zinc",
	Short: "Zinc compiler and bytecode toolchain",
	Long: `zinc compiles and runs programs written in the Zinc language, a small
imperative language with quasi-natural-English syntax ("there is a number
called x which is 5").

The toolchain lexes, parses, and lowers a .zn source file to a
stack-oriented bytecode IR, then either runs it on the bundled VM or
writes the serialized IR to disk (optionally printing its disassembly).`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
