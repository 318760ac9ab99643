package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	prerror "github.com/msto63/pratt/foundation/core/error"
)

var (
	cfgFile     string
	grammarFile string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "pratt",
	Short: "pratt - operator-precedence expression toolkit",
	Long: `pratt tokenizes, parses and evaluates expressions with a Pratt parser.

The built-in grammar is an arithmetic calculator. Other grammars are
declared in TOML or YAML files and selected with --grammar.

Commands:
  eval     - evaluate expressions
  tokens   - show how an expression is tokenized
  repl     - interactive evaluation
  history  - recorded evaluations
  grammar  - check and describe grammar files`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default: ./pratt.toml or the user config dir)")
	rootCmd.PersistentFlags().StringVarP(&grammarFile, "grammar", "g", "", "grammar file (default: built-in calculator)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(err error) {
	if perr, ok := prerror.As(err); ok && verbose {
		fmt.Fprintf(os.Stderr, "error: %s\n", perr.String())
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
