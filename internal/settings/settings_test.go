package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prerror "github.com/msto63/pratt/foundation/core/error"
	prlog "github.com/msto63/pratt/foundation/core/log"
)

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

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Source != "" {
		t.Errorf("Expected no source file, got %s", s.Source)
	}
	if s.Log.Level != "warn" || s.Log.Format != "console" {
		t.Errorf("Unexpected log settings: %+v", s.Log)
	}
	if s.Grammar.Path != "" || s.Grammar.Strict {
		t.Errorf("Unexpected grammar settings: %+v", s.Grammar)
	}
	if !s.History.Enabled || s.History.Retention != 720*time.Hour {
		t.Errorf("Unexpected history settings: %+v", s.History)
	}
	if filepath.Base(s.History.Path) != "history.db" {
		t.Errorf("Unexpected history path %s", s.History.Path)
	}
	if s.Metrics.Enabled || s.Metrics.Namespace != "pratt" {
		t.Errorf("Unexpected metrics settings: %+v", s.Metrics)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "pratt.toml", `
[log]
level = "debug"
format = "json"

[grammar]
path = "grammars/minmax.yaml"
watch = true
strict = true
max_input_length = 256

[history]
enabled = false
retention = "24h"

[metrics]
enabled = true
listen = ":9100"
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Source != path {
		t.Errorf("Expected source %s, got %s", path, s.Source)
	}
	if s.Log.Level != "debug" || s.Log.Format != "json" {
		t.Errorf("Unexpected log settings: %+v", s.Log)
	}
	want := GrammarSettings{Path: "grammars/minmax.yaml", Watch: true, Strict: true, MaxInputLength: 256}
	if s.Grammar != want {
		t.Errorf("Expected %+v, got %+v", want, s.Grammar)
	}
	if s.History.Enabled || s.History.Retention != 24*time.Hour {
		t.Errorf("Unexpected history settings: %+v", s.History)
	}
	if !s.Metrics.Enabled || s.Metrics.Listen != ":9100" || s.Metrics.Namespace != "pratt" {
		t.Errorf("Unexpected metrics settings: %+v", s.Metrics)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "pratt.yaml", `
log:
  level: info
grammar:
  strict: true
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Log.Level != "info" || s.Log.Format != "console" {
		t.Errorf("Unexpected log settings: %+v", s.Log)
	}
	if !s.Grammar.Strict {
		t.Error("Expected strict grammar")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeFile(t, "pratt.toml", "[log]\nlevel = \"debug\"\n")
	t.Setenv("PRATT_LOG_LEVEL", "error")
	t.Setenv("PRATT_GRAMMAR_STRICT", "true")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Log.Level != "error" {
		t.Errorf("Expected env override error, got %s", s.Log.Level)
	}
	if !s.Grammar.Strict {
		t.Error("Expected env override of grammar.strict")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown level", "[log]\nlevel = \"loud\"\n"},
		{"unknown format", "[log]\nformat = \"xml\"\n"},
		{"negative max length", "[grammar]\nmax_input_length = -1\n"},
		{"bad retention", "[history]\nretention = \"forever\"\n"},
		{"bad listen address", "[metrics]\nlisten = \"localhost\"\n"},
		{"bad namespace", "[metrics]\nnamespace = \"9lives\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "pratt.toml", tt.content)
			_, err := Load(path)
			if !prerror.HasCode(err, prerror.CodeValidationFailed) {
				t.Errorf("Expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !prerror.HasCode(err, prerror.CodeNotFound) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}

func TestSettings_Logger(t *testing.T) {
	s := &Settings{Log: LogSettings{Level: "debug", Format: "logfmt"}}
	logger, err := s.Logger()
	if err != nil {
		t.Fatalf("Logger failed: %v", err)
	}
	if logger.GetLevel() != prlog.LevelDebug {
		t.Errorf("Expected debug level, got %v", logger.GetLevel())
	}

	s.Log.Level = "loud"
	if _, err := s.Logger(); !prerror.HasCode(err, prerror.CodeInvalidConfig) {
		t.Errorf("Expected INVALID_CONFIG, got %v", err)
	}
}
