package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	prlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/internal/metrics"
	"github.com/msto63/pratt/internal/service"
	"github.com/msto63/pratt/internal/settings"
)

// app bundles everything a command needs to evaluate expressions
type app struct {
	settings  *settings.Settings
	logger    *prlog.Logger
	store     history.Store
	collector *metrics.Collector
	evaluator *service.Evaluator
	server    *http.Server
	logOutput *os.File
}

type appOptions struct {
	watch       bool // follow grammar file changes
	withHistory bool
	serve       bool // expose metrics over HTTP when enabled
	logFile     string
}

func loadSettings() (*settings.Settings, *prlog.Logger, error) {
	s, err := settings.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if grammarFile != "" {
		s.Grammar.Path = grammarFile
	}

	logger, err := s.Logger()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		logger.SetLevel(prlog.LevelDebug)
	}
	prlog.SetDefault(logger)
	return s, logger, nil
}

func newApp(opts appOptions) (*app, error) {
	s, logger, err := loadSettings()
	if err != nil {
		return nil, err
	}

	a := &app{settings: s, logger: logger}

	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger = prlog.Discard()
		} else {
			a.logOutput = f
			logger = logger.WithOutput(f)
		}
		a.logger = logger
		prlog.SetDefault(logger)
	}

	if opts.withHistory && s.History.Enabled {
		store, err := history.NewSQLiteStore(history.Config{Path: s.History.Path})
		if err != nil {
			// History is optional; evaluation still works without it
			logger.WarnWithErr("history disabled", err, prlog.Fields{"path": s.History.Path})
		} else {
			a.store = store
		}
	}

	if s.Metrics.Enabled {
		cfg := metrics.DefaultConfig()
		cfg.Namespace = s.Metrics.Namespace
		a.collector = metrics.NewCollector(cfg, nil)
	}

	a.evaluator, err = service.New(service.Config{
		GrammarPath:    s.Grammar.Path,
		WatchGrammar:   opts.watch && s.Grammar.Watch,
		Strict:         s.Grammar.Strict,
		MaxInputLength: s.Grammar.MaxInputLength,
	}, logger, a.store, a.collector)
	if err != nil {
		a.Close()
		return nil, err
	}

	if opts.serve && a.collector != nil {
		if err := a.serveMetrics(s.Metrics.Listen); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) serveMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.collector.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.ErrorWithErr("metrics server stopped", err)
		}
	}()
	a.logger.Info("serving metrics", prlog.Fields{"addr": ln.Addr().String()})
	return nil
}

// Close releases the evaluator, metrics server and history store
func (a *app) Close() {
	if a.evaluator != nil {
		a.evaluator.Close()
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		a.server.Shutdown(ctx)
		cancel()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logOutput != nil {
		a.logOutput.Close()
	}
}

// openHistory opens the store directly, for commands that only read it
func openHistory() (history.Store, error) {
	s, _, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return history.NewSQLiteStore(history.Config{Path: s.History.Path})
}
