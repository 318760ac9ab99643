package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	prerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/internal/history"
)

const minmaxGrammar = `name: minmax
rules:
  - id: NUMBER
    pattern: '\d+'
    regex: true
  - id: MIN
    pattern: "<?"
operators:
  - token: NUMBER
    kind: literal
  - token: MIN
    kind: infix-left
    precedence: 1
    op: min
`

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("Chdir restore failed: %v", err)
		}
	})
}

// setup isolates a test from the user's settings and history
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	t.Setenv("PRATT_HISTORY_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("PRATT_LOG_LEVEL", "error")

	cfgFile, grammarFile, verbose = "", "", false
	evalFlags.json, evalFlags.noHistory = false, false
	historyFlags.limit = history.DefaultLimit
	historyFlags.session, historyFlags.failed = "", false
	historyFlags.json, historyFlags.stats = false, false
	historyFlags.prune = 0
	return dir
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestRootCommands(t *testing.T) {
	want := []string{"eval", "tokens", "repl", "history", "grammar", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command %q", name)
		}
	}

	for _, flag := range []string{"config", "grammar", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Expected persistent flag --%s", flag)
		}
	}
}

func TestEval_Single(t *testing.T) {
	setup(t)
	cmd, out := newTestCommand()

	if err := runEval(cmd, []string{"1 + 2 * 3"}); err != nil {
		t.Fatalf("runEval failed: %v", err)
	}
	if got := out.String(); got != "7\n" {
		t.Errorf("Expected \"7\\n\", got %q", got)
	}
}

func TestEval_Multiple(t *testing.T) {
	setup(t)
	cmd, out := newTestCommand()

	if err := runEval(cmd, []string{"2 ^ 3 ^ 2", "-(4 - 6)"}); err != nil {
		t.Fatalf("runEval failed: %v", err)
	}
	want := "2 ^ 3 ^ 2\t512\n-(4 - 6)\t2\n"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEval_Failure(t *testing.T) {
	setup(t)
	cmd, out := newTestCommand()

	err := runEval(cmd, []string{"1 +", "2"})
	if !prerror.HasCode(err, prerror.CodeInvalidInput) {
		t.Fatalf("Expected INVALID_INPUT summary error, got %v", err)
	}
	if !strings.Contains(out.String(), "unexpected end of input") {
		t.Errorf("Expected the parse error in the output, got %q", out.String())
	}
	if !strings.Contains(out.String(), "2\t2") {
		t.Errorf("Expected the second expression to be evaluated, got %q", out.String())
	}
}

func TestEval_JSON(t *testing.T) {
	setup(t)
	evalFlags.json = true
	cmd, out := newTestCommand()

	runEval(cmd, []string{"6 / 4", ")", "0 / 0"})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 JSON lines, got %d: %q", len(lines), out.String())
	}

	var ok, failed evalOutput
	if err := json.Unmarshal([]byte(lines[0]), &ok); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if ok.Value != "1.5" || ok.Tokens != 3 || ok.ID == "" {
		t.Errorf("Expected 1.5, got %+v", ok)
	}
	if err := json.Unmarshal([]byte(lines[1]), &failed); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if failed.Code != string(prerror.CodeNoPrefixHandler) || failed.Value != "" {
		t.Errorf("Expected NO_PREFIX_HANDLER, got %+v", failed)
	}
	if !strings.Contains(lines[2], `"value":"NaN"`) {
		t.Errorf("Expected NaN as a string, got %s", lines[2])
	}
}

func TestEval_Stdin(t *testing.T) {
	setup(t)
	cmd, out := newTestCommand()
	cmd.SetIn(strings.NewReader("# comment\n1 + 1\n\n3 * 3\n"))

	if err := runEval(cmd, nil); err != nil {
		t.Fatalf("runEval failed: %v", err)
	}
	want := "1 + 1\t2\n3 * 3\t9\n"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEval_GrammarFlag(t *testing.T) {
	dir := setup(t)
	grammarFile = writeFile(t, dir, "minmax.yaml", minmaxGrammar)
	cmd, out := newTestCommand()

	if err := runEval(cmd, []string{"9 <? 4 <? 6"}); err != nil {
		t.Fatalf("runEval failed: %v", err)
	}
	if got := out.String(); got != "4\n" {
		t.Errorf("Expected 4, got %q", got)
	}
}

func TestEval_ConfigFile(t *testing.T) {
	dir := setup(t)
	cfgFile = writeFile(t, dir, "custom.toml", "[grammar]\nstrict = true\n")
	cmd, _ := newTestCommand()

	err := runEval(cmd, []string{"1 2"})
	if err == nil {
		t.Error("Expected strict mode from the config file to reject trailing input")
	}
}

func TestHistory(t *testing.T) {
	setup(t)

	ec, _ := newTestCommand()
	runEval(ec, []string{"1 + 1", "2 *", "3"})

	cmd, out := newTestCommand()
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"INPUT", "1 + 1", "UNEXPECTED_EOF"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in history output:\n%s", want, text)
		}
	}

	historyFlags.failed = true
	historyFlags.json = true
	cmd, out = newTestCommand()
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected one failed entry, got %q", out.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if entry["input"] != "2 *" || entry["code"] != "UNEXPECTED_EOF" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestHistory_StatsAndPrune(t *testing.T) {
	setup(t)

	ec, _ := newTestCommand()
	runEval(ec, []string{"1", ")"})

	historyFlags.stats = true
	cmd, out := newTestCommand()
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory --stats failed: %v", err)
	}
	for _, want := range []string{"evaluations: 2", "failed:      1", "NO_PREFIX_HANDLER"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in stats:\n%s", want, out.String())
		}
	}

	historyFlags.stats = false
	historyFlags.prune = time.Hour
	cmd, out = newTestCommand()
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory --prune failed: %v", err)
	}
	if !strings.Contains(out.String(), "pruned 0 entries") {
		t.Errorf("Expected nothing to be pruned, got %q", out.String())
	}
}

func TestEval_NoHistory(t *testing.T) {
	setup(t)
	evalFlags.noHistory = true

	ec, _ := newTestCommand()
	if err := runEval(ec, []string{"1"}); err != nil {
		t.Fatalf("runEval failed: %v", err)
	}

	historyFlags.stats = true
	cmd, out := newTestCommand()
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory failed: %v", err)
	}
	if !strings.Contains(out.String(), "evaluations: 0") {
		t.Errorf("Expected an empty history, got %q", out.String())
	}
}

func TestTokens(t *testing.T) {
	setup(t)
	cmd, out := newTestCommand()

	if err := runTokens(cmd, []string{"12", "+", "3.5"}); err != nil {
		t.Fatalf("runTokens failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"OFFSET", "NUMBER", "12", "3.5", "+"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
	if lines := strings.Count(text, "\n"); lines != 4 {
		t.Errorf("Expected header plus 3 tokens, got %d lines", lines)
	}
}

func TestTokens_NoTokens(t *testing.T) {
	setup(t)
	cmd, _ := newTestCommand()
	if err := runTokens(cmd, []string{"   "}); !prerror.HasCode(err, prerror.CodeTokenization) {
		t.Errorf("Expected TOKENIZATION, got %v", err)
	}
}

func TestGrammarCheck(t *testing.T) {
	dir := setup(t)
	valid := writeFile(t, dir, "minmax.yaml", minmaxGrammar)
	invalid := writeFile(t, dir, "broken.toml", "name = \"broken\"\n")

	cmd, out := newTestCommand()
	if err := runGrammarCheck(cmd, []string{valid}); err != nil {
		t.Fatalf("Expected valid grammar, got %v", err)
	}
	if !strings.Contains(out.String(), "✓") || !strings.Contains(out.String(), "minmax") {
		t.Errorf("Unexpected output %q", out.String())
	}

	cmd, out = newTestCommand()
	if err := runGrammarCheck(cmd, []string{valid, invalid}); err == nil {
		t.Fatal("Expected an error for the invalid grammar")
	}
	if !strings.Contains(out.String(), "✗ "+invalid) {
		t.Errorf("Expected the invalid file to be reported, got %q", out.String())
	}
}

func TestGrammarShow(t *testing.T) {
	dir := setup(t)

	cmd, out := newTestCommand()
	if err := runGrammarShow(cmd, nil); err != nil {
		t.Fatalf("runGrammarShow failed: %v", err)
	}
	if !strings.Contains(out.String(), "calc (builtin:calc)") {
		t.Errorf("Expected the built-in grammar, got %q", out.String())
	}

	path := writeFile(t, dir, "minmax.yaml", minmaxGrammar)
	cmd, out = newTestCommand()
	if err := runGrammarShow(cmd, []string{path}); err != nil {
		t.Fatalf("runGrammarShow failed: %v", err)
	}
	if !strings.Contains(out.String(), "MIN") || !strings.Contains(out.String(), "infix-left") {
		t.Errorf("Expected the minmax operators, got %q", out.String())
	}
}

func TestGrammarOps(t *testing.T) {
	cmd, out := newTestCommand()
	if err := grammarOpsCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("ops failed: %v", err)
	}
	if !strings.Contains(out.String(), "sqrt") || !strings.Contains(out.String(), "pow") {
		t.Errorf("Expected operation names, got %q", out.String())
	}
}

func TestVersion(t *testing.T) {
	cmd, out := newTestCommand()
	versionCmd.Run(cmd, nil)
	if !strings.Contains(out.String(), "pratt v"+Version) {
		t.Errorf("Unexpected version output %q", out.String())
	}
}

func TestPreviousInputs(t *testing.T) {
	dir := setup(t)
	store, err := history.NewSQLiteStore(history.Config{Path: filepath.Join(dir, "h.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	base := time.Now().Add(-time.Minute)
	for i, input := range []string{"1", "2", "3"} {
		store.Record(context.Background(), &history.Entry{Input: input, Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	got := previousInputs(store)
	if strings.Join(got, ",") != "1,2,3" {
		t.Errorf("Expected oldest first, got %v", got)
	}
	if previousInputs(nil) != nil {
		t.Error("Expected nil without a store")
	}
}
