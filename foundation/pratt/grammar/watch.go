// File: watch.go
// Title: Grammar Hot Reload
// Description: Recompiles a grammar file whenever it changes on disk.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-17 v0.1.1: Reloads hand over counting parse functions

package grammar

import (
	prconfig "github.com/msto63/pratt/foundation/core/config"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// ReloadFunc receives a freshly compiled grammar
type ReloadFunc func(def *Definition, parse parser.CountingParseFunc[float64])

// Watch recompiles the grammar at path after every change and hands the
// result to onReload. A file that fails to load or compile is reported to
// onError, which may be nil, and the previous grammar stays in effect
// with the caller. Stop the returned watcher to end watching.
func Watch(path string, onReload ReloadFunc, onError func(error), opts ...parser.Option) (*prconfig.FileWatcher, error) {
	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}

	return prconfig.WatchFile(path, prconfig.DefaultDebounce, func() {
		def, err := Load(path)
		if err != nil {
			report(err)
			return
		}
		parse, err := def.CompileCounting(opts...)
		if err != nil {
			report(err)
			return
		}
		onReload(def, parse)
	}, report)
}
