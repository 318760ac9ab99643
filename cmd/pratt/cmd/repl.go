package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/internal/settings"
	"github.com/msto63/pratt/internal/tui/repl"
)

var replFlags struct {
	timeout time.Duration
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate expressions interactively",
	Long: `Starts an interactive terminal session. Expressions are evaluated as
they are entered; :help lists the REPL commands.

With grammar.watch enabled in the settings, edits to the grammar file take
effect without restarting. With metrics.enabled, Prometheus metrics are
served on metrics.listen while the session runs.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().DurationVar(&replFlags.timeout, "timeout", 5*time.Second, "limit per evaluation")
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	// Logs would corrupt the alternate screen
	logFile := filepath.Join(settings.DataDir(), "repl.log")
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		logFile = os.DevNull
	}

	a, err := newApp(appOptions{watch: true, withHistory: true, serve: true, logFile: logFile})
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = repl.Run(a.evaluator, repl.Config{
		Timeout: replFlags.timeout,
		History: previousInputs(a.store),
	})
	return err
}

// previousInputs seeds the up/down history from earlier sessions
func previousInputs(store history.Store) []string {
	if store == nil {
		return nil
	}
	entries, err := store.Recent(context.Background(), history.Filter{Limit: repl.MaxInputHistory})
	if err != nil {
		return nil
	}

	inputs := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		inputs = append(inputs, entries[i].Input)
	}
	return inputs
}
