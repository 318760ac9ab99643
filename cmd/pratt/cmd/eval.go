package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	prerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/internal/service"
	"github.com/msto63/pratt/internal/tui/repl"
)

var evalFlags struct {
	json      bool
	noHistory bool
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression...]",
	Short: "Evaluate expressions",
	Long: `Evaluates each argument as an expression and prints the result.
Without arguments, expressions are read from standard input, one per line.

Examples:
  pratt eval "1 + 2 * 3"
  pratt eval "2 ^ 3 ^ 2" "-(4 - 6)"
  echo "3 <? 7" | pratt eval --grammar minmax.yaml`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&evalFlags.json, "json", false, "print results as JSON lines")
	evalCmd.Flags().BoolVar(&evalFlags.noHistory, "no-history", false, "do not record evaluations")
	rootCmd.AddCommand(evalCmd)
}

// evalOutput is one JSON line of eval --json. Values are strings because
// JSON has no NaN or infinities.
type evalOutput struct {
	ID       string `json:"id,omitempty"`
	Input    string `json:"input"`
	Value    string `json:"value,omitempty"`
	Tokens   int    `json:"tokens,omitempty"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
}

func runEval(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{withHistory: !evalFlags.noHistory})
	if err != nil {
		return err
	}
	defer a.Close()

	inputs := args
	if len(inputs) == 0 {
		inputs, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	return evaluateAll(cmd.Context(), a.evaluator, inputs, cmd.OutOrStdout(), evalFlags.json)
}

// evaluateAll prints one line per input and fails if any input failed
func evaluateAll(ctx context.Context, evaluator *service.Evaluator, inputs []string, out io.Writer, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	failed := 0
	enc := json.NewEncoder(out)
	for _, input := range inputs {
		res, err := evaluator.Evaluate(ctx, input)
		if err != nil {
			failed++
		}

		if asJSON {
			line := evalOutput{Input: input}
			if err == nil {
				line.ID = res.ID
				line.Value = repl.FormatValue(res.Value)
				line.Tokens = res.Tokens
				line.Duration = res.Duration.String()
			} else {
				line.Error = err.Error()
				line.Code = string(prerror.GetCode(err))
			}
			if encErr := enc.Encode(line); encErr != nil {
				return encErr
			}
			continue
		}

		if err != nil {
			fmt.Fprintf(out, "%s\t%s\n", input, err)
			continue
		}
		if len(inputs) == 1 {
			fmt.Fprintln(out, repl.FormatValue(res.Value))
		} else {
			fmt.Fprintf(out, "%s\t%s\n", input, repl.FormatValue(res.Value))
		}
	}

	if failed > 0 {
		return prerror.Newf("%d of %d expressions failed", failed, len(inputs)).
			WithCode(prerror.CodeInvalidInput).
			WithOperation("cmd.eval")
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
