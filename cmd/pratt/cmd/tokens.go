package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/foundation/pratt/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <expression>",
	Short: "Show how an expression is tokenized",
	Long: `Prints the tokens of an expression with their identity and offset.
Characters that no rule matches are skipped, so this is the quickest way
to see what the parser actually receives.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	s, _, err := loadSettings()
	if err != nil {
		return err
	}

	tok, err := tokenizerFor(s.Grammar.Path)
	if err != nil {
		return err
	}

	tokens, err := tok.Tokenize(strings.Join(args, " "))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tID\tVALUE")
	for _, t := range tokens {
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.Offset, t.Identity(), t.Value)
	}
	return w.Flush()
}

func tokenizerFor(path string) (*lexer.Tokenizer, error) {
	if path == "" {
		return calc.Tokenizer(), nil
	}
	def, err := definitionFor(path)
	if err != nil {
		return nil, err
	}
	return def.Tokenizer()
}
