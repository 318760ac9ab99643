// File: logger_test.go
// Title: Logger Tests
// Description: Tests for the main logger functionality including configuration,
//              context management, and integration with formatters.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests
// - 2026-10-16 v0.2.0: Severity mapping, timer and formatter tests

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	prerror "github.com/msto63/pratt/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	logger := New()

	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Level:  LevelError,
		Format: FormatText,
		Output: &buf,
		Name:   "test-logger",
	})

	if logger.GetLevel() != LevelError {
		t.Errorf("level = %v, want %v", logger.GetLevel(), LevelError)
	}
	if logger.name != "test-logger" {
		t.Errorf("name = %v, want test-logger", logger.name)
	}
	if logger.output != &buf {
		t.Error("NewWithConfig() should set custom output")
	}
}

func TestLoggerWithLevel(t *testing.T) {
	logger := New()
	newLogger := logger.WithLevel(LevelDebug)

	if newLogger == logger {
		t.Error("WithLevel() should return a new logger instance")
	}
	if newLogger.GetLevel() != LevelDebug {
		t.Errorf("WithLevel() level = %v, want %v", newLogger.GetLevel(), LevelDebug)
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Error("WithLevel() should not modify original logger")
	}
}

func TestLoggerWithFieldIsolation(t *testing.T) {
	base, _ := newBufferLogger(LevelInfo, FormatJSON)
	child := base.WithField("component", "lexer")

	if _, ok := base.contextFields["component"]; ok {
		t.Error("WithField() leaked into parent logger")
	}
	if child.contextFields["component"] != "lexer" {
		t.Errorf("child field = %v, want lexer", child.contextFields["component"])
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatJSON)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")
	logger.Audit("always")

	lines := decodeLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %s", len(lines), buf.String())
	}
	if lines[2]["level"] != "audit" {
		t.Errorf("last level = %v, want audit", lines[2]["level"])
	}
}

func TestJSONOutputContext(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger = logger.WithName("engine").WithRequestID("req-1").WithCorrelationID("corr-1").
		WithField("grammar", "calc")

	logger.Debug("parsed", Fields{"tokens": 3})

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	line := lines[0]
	checks := map[string]interface{}{
		"message":        "parsed",
		"logger":         "engine",
		"request_id":     "req-1",
		"correlation_id": "corr-1",
		"grammar":        "calc",
		"tokens":         float64(3),
	}
	for k, want := range checks {
		if line[k] != want {
			t.Errorf("%s = %v, want %v", k, line[k], want)
		}
	}
}

func TestLogErrorSeverityMapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"syntax error is info", prerror.New("no prefix").WithCode(prerror.CodeNoPrefixHandler), "info"},
		{"medium is warn", prerror.New("missing").WithCode(prerror.CodeNotFound), "warn"},
		{"broken grammar is error", prerror.New("bad regex").WithCode(prerror.CodeInvalidGrammar), "error"},
		{"plain error is error", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)

			lines := decodeLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("got %d lines, want 1", len(lines))
			}
			if lines[0]["level"] != tt.level {
				t.Errorf("level = %v, want %v", lines[0]["level"], tt.level)
			}
		})
	}
}

func TestLogErrorDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	err := prerror.New("expected `)`").
		WithCode(prerror.CodeExpectedToken).
		WithDetail("expected", ")").
		WithOperation("parse")

	logger.LogError(err)
	logger.LogError(nil)

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["error_code"] != string(prerror.CodeExpectedToken) {
		t.Errorf("error_code = %v", lines[0]["error_code"])
	}
	if lines[0]["error_expected"] != ")" {
		t.Errorf("error_expected = %v", lines[0]["error_expected"])
	}
	if lines[0]["error_operation"] != "parse" {
		t.Errorf("error_operation = %v", lines[0]["error_operation"])
	}
	if _, ok := lines[0]["error_details"]; !ok {
		t.Error("structured error should be expanded into error_details")
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	timer := logger.StartTimer("evaluate").WithField("input", "1+2")
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Errorf("Stop() = %v, want positive duration", elapsed)
	}
	if again := timer.Stop(); again != 0 {
		t.Errorf("second Stop() = %v, want 0", again)
	}

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["message"] != "evaluate completed" {
		t.Errorf("message = %v", lines[0]["message"])
	}
	if _, ok := lines[0]["duration_ms"]; !ok {
		t.Error("timer entry should carry duration_ms")
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	logger.StartTimer("evaluate").StopWithError(errors.New("boom"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["level"] != "warn" {
		t.Errorf("level = %v, want warn", lines[0]["level"])
	}
	if lines[0]["success"] != false {
		t.Errorf("success = %v, want false", lines[0]["success"])
	}
}

func TestTextAndLogfmtFormats(t *testing.T) {
	tests := []struct {
		format Format
		want   []string
	}{
		{FormatText, []string{"[INF]", "hello", "a=1 b=two"}},
		{FormatLogfmt, []string{"level=info", `message="hello"`, "a=1", `b="two"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			logger, buf := newBufferLogger(LevelInfo, tt.format)
			logger.Info("hello", Fields{"b": "two", "a": 1})

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}

func TestConsoleFormatterColors(t *testing.T) {
	f := NewConsoleFormatter()
	data, err := f.Format(NewEntry(LevelError, "bad"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), LevelError.Color()) {
		t.Errorf("console output should start with level color: %q", data)
	}

	f.DisableColors = true
	data, _ = f.Format(NewEntry(LevelError, "bad"))
	if strings.Contains(string(data), "\033[") {
		t.Errorf("colors disabled but output has escape codes: %q", data)
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{
		"trace": LevelTrace, "DEBUG": LevelDebug, " info ": LevelInfo,
		"warning": LevelWarn, "err": LevelError, "audit": LevelAudit,
	}
	for in, want := range levels {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}

	for _, name := range []string{"json", "text", "console", "logfmt"} {
		f, err := ParseFormat(name)
		if err != nil || f.String() != name {
			t.Errorf("ParseFormat(%q) = %v, %v", name, f, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped")
	if logger.IsLevelEnabled(LevelDebug) {
		t.Error("Discard() should not enable debug")
	}
}

func TestSetDefault(t *testing.T) {
	orig := GetDefault()
	defer SetDefault(orig)

	logger, buf := newBufferLogger(LevelInfo, FormatText)
	SetDefault(logger)
	Info("via default")

	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger output = %q", buf.String())
	}

	SetDefault(nil)
	if GetDefault() != logger {
		t.Error("SetDefault(nil) should be ignored")
	}
}
