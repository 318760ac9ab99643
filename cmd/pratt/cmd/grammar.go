package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/pratt/foundation/pratt/grammar"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Check and describe grammar files",
}

var grammarCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate grammar files",
	Long: `Loads and validates each grammar file and reports every problem found.
Exits with an error if any file is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGrammarCheck,
}

var grammarShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Describe a grammar's operators",
	Long: `Lists the tokens and operators of a grammar, tightest binding first.
Without a file, the grammar selected by --grammar or the settings is shown,
falling back to the built-in calculator.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrammarShow,
}

var grammarOpsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the operations available to grammar files",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "unary:  %s\n", strings.Join(grammar.UnaryOps(), ", "))
		fmt.Fprintf(out, "binary: %s\n", strings.Join(grammar.BinaryOps(), ", "))
		return nil
	},
}

func init() {
	grammarCmd.AddCommand(grammarCheckCmd)
	grammarCmd.AddCommand(grammarShowCmd)
	grammarCmd.AddCommand(grammarOpsCmd)
	rootCmd.AddCommand(grammarCmd)
}

func runGrammarCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0

	for _, path := range args {
		def, err := grammar.Load(path)
		if err == nil {
			err = def.Validate()
		}
		if err != nil {
			invalid++
			fmt.Fprintf(out, "✗ %s\n  %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%s, %d rules, %d operators)\n", path, def.Name, len(def.Rules), len(def.Operators))
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d grammar files are invalid", invalid, len(args))
	}
	return nil
}

func runGrammarShow(cmd *cobra.Command, args []string) error {
	path := grammarFile
	if len(args) == 1 {
		path = args[0]
	} else if path == "" {
		s, _, err := loadSettings()
		if err != nil {
			return err
		}
		path = s.Grammar.Path
	}

	def, err := definitionFor(path)
	if err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", def.Name, def.Source)
	if def.Description != "" {
		fmt.Fprintf(out, "%s\n", def.Description)
	}
	fmt.Fprintln(out)
	for _, line := range def.Summary() {
		fmt.Fprintf(out, "  %s\n", line)
	}
	return nil
}

// definitionFor loads path, or returns the built-in calculator for ""
func definitionFor(path string) (*grammar.Definition, error) {
	if path == "" {
		return grammar.Builtin(), nil
	}
	return grammar.Load(path)
}
