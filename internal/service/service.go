// ============================================================================
// mPratt - Operator-Precedence Parsing Toolkit
// ============================================================================
//
// Package:     service
// Description: Evaluation service. Combines the active grammar with logging,
//              the evaluation history and Prometheus metrics, and swaps the
//              grammar at runtime when its file changes.
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	prconfig "github.com/msto63/pratt/foundation/core/config"
	prerror "github.com/msto63/pratt/foundation/core/error"
	prlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/foundation/pratt/lexer"
	"github.com/msto63/pratt/foundation/pratt/parser"
	prstringx "github.com/msto63/pratt/foundation/utils/stringx"
	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/internal/metrics"
)

// BuiltinGrammar names the calculator used when no grammar file is set
const BuiltinGrammar = "builtin:calc"

// Config holds the service configuration
type Config struct {
	// GrammarPath selects a grammar file; empty means the built-in calculator
	GrammarPath string
	// WatchGrammar recompiles the grammar whenever its file changes
	WatchGrammar   bool
	Strict         bool
	MaxInputLength int
	// SessionID groups history entries; generated when empty
	SessionID string
}

// Result is the outcome of one successful evaluation
type Result struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Input     string        `json:"input"`
	Value     float64       `json:"value"`
	Tokens    int           `json:"tokens"`
	Grammar   string        `json:"grammar"`
	Duration  time.Duration `json:"duration"`
}

// active is the grammar in effect, replaced as a whole on reload
type active struct {
	name      string
	tokenizer *lexer.Tokenizer
	parse     parser.CountingParseFunc[float64]
	def       *grammar.Definition
}

// Evaluator evaluates expressions. It is safe for concurrent use.
type Evaluator struct {
	config  Config
	logger  *prlog.Logger
	store   history.Store
	metrics *metrics.Collector

	mu      sync.RWMutex
	current *active
	watcher *prconfig.FileWatcher
}

// New creates an evaluator. store and collector may be nil to disable
// history and metrics.
func New(cfg Config, logger *prlog.Logger, store history.Store, collector *metrics.Collector) (*Evaluator, error) {
	if logger == nil {
		logger = prlog.GetDefault()
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.New().String()
	}

	e := &Evaluator{
		config:  cfg,
		logger:  logger.WithField("component", "evaluator").WithCorrelationID(cfg.SessionID),
		store:   store,
		metrics: collector,
	}

	var err error
	if cfg.GrammarPath == "" {
		e.current, err = e.builtin()
	} else {
		e.current, err = e.load(cfg.GrammarPath)
	}
	if err != nil {
		return nil, err
	}

	if cfg.WatchGrammar && cfg.GrammarPath != "" {
		if err := e.watch(cfg.GrammarPath); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("evaluator ready", prlog.Fields{"grammar": e.current.name})
	return e, nil
}

func (e *Evaluator) parserOptions() []parser.Option {
	opts := []parser.Option{parser.WithLogger(e.logger)}
	// A grammar file's own strict and max_input_length settings are only
	// overridden when set here
	if e.config.Strict {
		opts = append(opts, parser.WithStrict(true))
	}
	if e.config.MaxInputLength > 0 {
		opts = append(opts, parser.WithMaxInputLength(e.config.MaxInputLength))
	}
	return opts
}

func (e *Evaluator) builtin() (*active, error) {
	parse, err := calc.Builder(e.parserOptions()...).BuildCounting()
	if err != nil {
		return nil, prerror.Wrap(err, "failed to build calculator").
			WithOperation("service.builtin")
	}
	return &active{name: BuiltinGrammar, tokenizer: calc.Tokenizer(), parse: parse}, nil
}

func (e *Evaluator) load(path string) (*active, error) {
	def, err := grammar.Load(path)
	if err != nil {
		return nil, err
	}
	return e.compile(def)
}

func (e *Evaluator) compile(def *grammar.Definition) (*active, error) {
	tok, err := def.Tokenizer()
	if err != nil {
		return nil, err
	}
	parse, err := def.CompileCounting(e.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return &active{name: grammarName(def), tokenizer: tok, parse: parse, def: def}, nil
}

func grammarName(def *grammar.Definition) string {
	return prstringx.FirstNonBlank(def.Name, def.Source)
}

func (e *Evaluator) watch(path string) error {
	watcher, err := grammar.Watch(path,
		func(def *grammar.Definition, parse parser.CountingParseFunc[float64]) {
			tok, err := def.Tokenizer()
			if err != nil {
				e.reloadFailed(path, err)
				return
			}
			e.swap(&active{name: grammarName(def), tokenizer: tok, parse: parse, def: def})
			e.metrics.RecordReload(nil)
			e.logger.Info("grammar reloaded", prlog.Fields{"path": path, "grammar": grammarName(def)})
		},
		func(err error) { e.reloadFailed(path, err) },
		e.parserOptions()...,
	)
	if err != nil {
		return prerror.Wrap(err, "failed to watch grammar").
			WithOperation("service.watch").
			WithDetail("path", path)
	}

	e.mu.Lock()
	e.watcher = watcher
	e.mu.Unlock()
	return nil
}

func (e *Evaluator) reloadFailed(path string, err error) {
	e.metrics.RecordReload(err)
	e.logger.WarnWithErr("grammar reload failed, keeping previous grammar", err, prlog.Fields{"path": path})
}

func (e *Evaluator) swap(next *active) {
	e.mu.Lock()
	e.current = next
	e.mu.Unlock()
}

func (e *Evaluator) snapshot() *active {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Evaluate parses and evaluates input with the active grammar. Every
// attempt is recorded in history and metrics, failures included.
func (e *Evaluator) Evaluate(ctx context.Context, input string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, prerror.Wrap(err, "evaluation cancelled").
			WithCode(prerror.CodeInternal).
			WithOperation("service.Evaluate")
	}

	g := e.snapshot()
	id := uuid.New().String()
	logger := e.logger.WithRequestID(id)
	start := time.Now()
	timer := logger.StartTimer("evaluate").WithField("input", input)

	value, tokens, err := g.parse(input)
	duration := timer.Elapsed()

	entry := &history.Entry{
		ID:        id,
		SessionID: e.config.SessionID,
		Input:     input,
		Duration:  duration,
		Timestamp: start,
	}

	var code string
	if err != nil {
		code = string(prerror.GetCode(err))
		entry.Error = err.Error()
		entry.Code = code
		logger.LogError(err)
	} else {
		entry.Result = value
		timer.WithField("value", value).WithField("grammar", g.name).Stop()
	}

	e.metrics.RecordEvaluation(code, tokens, duration)
	e.record(ctx, entry)

	if err != nil {
		return nil, err
	}
	return &Result{
		ID:        id,
		SessionID: e.config.SessionID,
		Input:     input,
		Value:     value,
		Tokens:    tokens,
		Grammar:   g.name,
		Duration:  duration,
	}, nil
}

// record never fails the evaluation
func (e *Evaluator) record(ctx context.Context, entry *history.Entry) {
	if e.store == nil {
		return
	}
	if err := e.store.Record(ctx, entry); err != nil {
		e.logger.WarnWithErr("failed to record evaluation", err, prlog.Fields{"id": entry.ID})
	}
}

// Tokenize splits input with the active grammar's tokenizer
func (e *Evaluator) Tokenize(input string) ([]lexer.Token, error) {
	return e.snapshot().tokenizer.Tokenize(input)
}

// Reload compiles def and makes it the active grammar. On error the
// previous grammar stays in effect.
func (e *Evaluator) Reload(def *grammar.Definition) error {
	next, err := e.compile(def)
	e.metrics.RecordReload(err)
	if err != nil {
		return err
	}
	e.swap(next)
	e.logger.Info("grammar replaced", prlog.Fields{"grammar": next.name})
	return nil
}

// LoadGrammar loads the grammar file at path and activates it
func (e *Evaluator) LoadGrammar(path string) error {
	def, err := grammar.Load(path)
	if err != nil {
		e.metrics.RecordReload(err)
		return err
	}
	return e.Reload(def)
}

// Grammar returns the name of the active grammar
func (e *Evaluator) Grammar() string {
	return e.snapshot().name
}

// Definition returns the active grammar definition, nil for the built-in
// calculator
func (e *Evaluator) Definition() *grammar.Definition {
	return e.snapshot().def
}

// SessionID returns the session all evaluations are recorded under
func (e *Evaluator) SessionID() string {
	return e.config.SessionID
}

// History returns the session's most recent evaluations, newest first
func (e *Evaluator) History(ctx context.Context, limit int) ([]*history.Entry, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Recent(ctx, history.Filter{SessionID: e.config.SessionID, Limit: limit})
}

// IsWatching reports whether grammar changes are picked up automatically
func (e *Evaluator) IsWatching() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.watcher != nil
}

// Close stops watching the grammar file. The history store is owned by
// the caller and stays open.
func (e *Evaluator) Close() error {
	e.mu.Lock()
	watcher := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if watcher != nil {
		return watcher.Stop()
	}
	return nil
}
