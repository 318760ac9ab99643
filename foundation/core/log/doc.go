// Package log provides structured logging for the pratt toolkit.
//
// Package: log
// Title: Structured Logging Framework
// Description: This package implements a structured logging system with
//              contextual fields, several output formats, level filtering and
//              integration with the structured error package. Parse engines
//              log per-token decisions at trace level; the service layer logs
//              evaluation outcomes with durations.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-16 v0.2.0: Trimmed to synchronous output, added Discard
//
// Usage:
//
//	import prlog "github.com/msto63/pratt/foundation/core/log"
//
//	logger := prlog.New().
//		WithLevel(prlog.LevelDebug).
//		WithFormat(prlog.FormatText).
//		WithField("component", "calc")
//
//	logger.Debug("expression parsed", prlog.Fields{"tokens": 7})
//	logger.LogError(err)
//
//	timer := logger.StartTimer("evaluate")
//	// ... evaluate
//	timer.Stop()
package log
