// ============================================================================
// mPratt - Operator-Precedence Parsing Toolkit
// ============================================================================
//
// Package:     settings
// Description: Application settings for the pratt command. Settings are
//              read from pratt.toml or pratt.yaml, overridden by PRATT_*
//              environment variables, validated and mapped onto typed
//              sections.
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package settings

import (
	"os"
	"path/filepath"
	"time"

	prconfig "github.com/msto63/pratt/foundation/core/config"
	prerror "github.com/msto63/pratt/foundation/core/error"
	prlog "github.com/msto63/pratt/foundation/core/log"
)

// EnvPrefix prefixes every environment override, e.g. PRATT_LOG_LEVEL
const EnvPrefix = "PRATT"

// Settings holds the complete application configuration
type Settings struct {
	Log     LogSettings
	Grammar GrammarSettings
	History HistorySettings
	Metrics MetricsSettings

	// Source is the file the settings were read from, empty for defaults
	Source string
}

// LogSettings configures the logger
type LogSettings struct {
	Level  string
	Format string
}

// GrammarSettings selects the grammar. An empty path means the built-in
// calculator.
type GrammarSettings struct {
	Path           string
	Watch          bool
	Strict         bool
	MaxInputLength int
}

// HistorySettings configures the evaluation store
type HistorySettings struct {
	Enabled   bool
	Path      string
	Retention time.Duration
}

// MetricsSettings configures the Prometheus endpoint
type MetricsSettings struct {
	Enabled   bool
	Listen    string
	Namespace string
}

// Defaults returns the default settings tree
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"log": map[string]interface{}{
			"level":  "warn",
			"format": "console",
		},
		"grammar": map[string]interface{}{
			"path":             "",
			"watch":            false,
			"strict":           false,
			"max_input_length": 0,
		},
		"history": map[string]interface{}{
			"enabled":   true,
			"path":      filepath.Join(DataDir(), "history.db"),
			"retention": "720h",
		},
		"metrics": map[string]interface{}{
			"enabled":   false,
			"listen":    "127.0.0.1:9464",
			"namespace": "pratt",
		},
	}
}

// Rules returns the validation rules for the settings tree
func Rules() prconfig.ValidationRules {
	return prconfig.ValidationRules{
		"log.level": {
			Type:  "string",
			OneOf: []string{"trace", "debug", "info", "warn", "warning", "error", "audit"},
		},
		"log.format": {
			Type:  "string",
			OneOf: []string{"json", "text", "console", "logfmt"},
		},
		"grammar.watch":            {Type: "bool"},
		"grammar.strict":           {Type: "bool"},
		"grammar.max_input_length": {Type: "int", Min: prconfig.Bound(0)},
		"history.enabled":          {Type: "bool"},
		"history.path":             {Type: "string", Min: prconfig.Bound(1)},
		"history.retention":        {Type: "duration", Min: prconfig.Bound(0)},
		"metrics.enabled":          {Type: "bool"},
		"metrics.listen":           {Type: "string", Pattern: `^[^:\s]*:\d+$`},
		"metrics.namespace":        {Type: "string", Pattern: `^[a-zA-Z_][a-zA-Z0-9_]*$`},
	}
}

// DataDir is where the history database lives by default
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pratt")
	}
	return filepath.Join(".", "data")
}

// SearchPaths lists the directories searched when no file is given
func SearchPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "pratt"))
	}
	return paths
}

// Load reads the settings. With an empty path, pratt.toml, pratt.yaml and
// pratt.yml are searched in SearchPaths and defaults apply when none exists.
func Load(path string) (*Settings, error) {
	load := prconfig.LoadOptions{
		Format:    prconfig.FormatAuto,
		EnvPrefix: EnvPrefix,
		Defaults:  Defaults(),
	}

	var (
		cfg *prconfig.Config
		err error
	)
	if path != "" {
		cfg, err = prconfig.LoadWithOptions(path, load)
	} else {
		cfg, err = prconfig.Discover(prconfig.DiscoveryOptions{
			Paths:     SearchPaths(),
			Filenames: []string{"pratt"},
			Load:      load,
		})
	}
	if err != nil {
		return nil, prerror.Wrap(err, "failed to load settings").
			WithOperation("settings.Load")
	}

	return FromConfig(cfg)
}

// FromConfig validates cfg and maps it onto Settings
func FromConfig(cfg *prconfig.Config) (*Settings, error) {
	if err := cfg.Validate(Rules()).Err(); err != nil {
		return nil, prerror.Wrap(err, "invalid settings").
			WithOperation("settings.FromConfig").
			WithDetail("source", cfg.FilePath())
	}

	return &Settings{
		Log: LogSettings{
			Level:  cfg.GetString("log.level"),
			Format: cfg.GetString("log.format"),
		},
		Grammar: GrammarSettings{
			Path:           cfg.GetString("grammar.path"),
			Watch:          cfg.GetBool("grammar.watch"),
			Strict:         cfg.GetBool("grammar.strict"),
			MaxInputLength: cfg.GetInt("grammar.max_input_length"),
		},
		History: HistorySettings{
			Enabled:   cfg.GetBool("history.enabled"),
			Path:      cfg.GetString("history.path"),
			Retention: cfg.GetDuration("history.retention"),
		},
		Metrics: MetricsSettings{
			Enabled:   cfg.GetBool("metrics.enabled"),
			Listen:    cfg.GetString("metrics.listen"),
			Namespace: cfg.GetString("metrics.namespace"),
		},
		Source: cfg.FilePath(),
	}, nil
}

// Logger builds a logger from the log section
func (s *Settings) Logger() (*prlog.Logger, error) {
	level, err := prlog.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, prerror.Wrap(err, "invalid log level").
			WithCode(prerror.CodeInvalidConfig).
			WithOperation("settings.Logger")
	}
	format, err := prlog.ParseFormat(s.Log.Format)
	if err != nil {
		return nil, prerror.Wrap(err, "invalid log format").
			WithCode(prerror.CodeInvalidConfig).
			WithOperation("settings.Logger")
	}

	return prlog.NewWithConfig(prlog.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
		Name:   "pratt",
	}), nil
}
