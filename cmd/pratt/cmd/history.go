package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/internal/tui/repl"
)

var historyFlags struct {
	limit   int
	session string
	failed  bool
	json    bool
	stats   bool
	prune   time.Duration
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded evaluations",
	Long: `Lists the most recent evaluations, newest first.

Examples:
  pratt history --limit 50
  pratt history --failed
  pratt history --stats
  pratt history --prune 720h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", history.DefaultLimit, "number of entries")
	historyCmd.Flags().StringVar(&historyFlags.session, "session", "", "only entries of this session")
	historyCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only failed evaluations")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "print entries as JSON lines")
	historyCmd.Flags().BoolVar(&historyFlags.stats, "stats", false, "print aggregate statistics")
	historyCmd.Flags().DurationVar(&historyFlags.prune, "prune", 0, "delete entries older than this age")
	rootCmd.AddCommand(historyCmd)
}

// historyOutput renders the result as a string, JSON has no infinities
type historyOutput struct {
	*history.Entry
	Result string `json:"result"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if historyFlags.prune > 0 {
		removed, err := store.Prune(ctx, historyFlags.prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pruned %d entries older than %s\n", removed, historyFlags.prune)
		return nil
	}

	if historyFlags.stats {
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		return printStats(out, stats)
	}

	entries, err := store.Recent(ctx, history.Filter{
		SessionID:  historyFlags.session,
		FailedOnly: historyFlags.failed,
		Limit:      historyFlags.limit,
	})
	if err != nil {
		return err
	}

	if historyFlags.json {
		enc := json.NewEncoder(out)
		for _, e := range entries {
			if err := enc.Encode(historyOutput{Entry: e, Result: repl.FormatValue(e.Result)}); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tINPUT\tRESULT\tDURATION")
	for _, e := range entries {
		result := repl.FormatValue(e.Result)
		if e.Failed() {
			result = e.Code
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Input, result, e.Duration)
	}
	return w.Flush()
}

func printStats(out io.Writer, stats *history.Stats) error {
	if historyFlags.json {
		return json.NewEncoder(out).Encode(stats)
	}

	fmt.Fprintf(out, "evaluations: %d\n", stats.Total)
	fmt.Fprintf(out, "failed:      %d\n", stats.Failed)
	fmt.Fprintf(out, "sessions:    %d\n", stats.Sessions)
	fmt.Fprintf(out, "avg time:    %s\n", stats.AvgDuration)
	if !stats.First.IsZero() {
		fmt.Fprintf(out, "range:       %s .. %s\n",
			stats.First.Local().Format(time.RFC3339), stats.Last.Local().Format(time.RFC3339))
	}

	codes := make([]string, 0, len(stats.ByCode))
	for code := range stats.ByCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(out, "  %-20s %d\n", code, stats.ByCode[code])
	}
	return nil
}
