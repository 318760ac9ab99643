// Package error provides structured error handling for the pratt toolkit.
//
// Package: error
// Title: Structured Error Handling
// Description: This package implements a structured error type with contextual
//              information, error codes, severities and stack traces. The tokenizer
//              and parser engine report every failure through it, so callers can
//              distinguish a tokenization error from the individual parse errors.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-16 v0.2.0: Parser error taxonomy
//
// Usage:
//
//	import prerror "github.com/msto63/pratt/foundation/core/error"
//
//	err := prerror.New("unexpected end of input").
//		WithCode(prerror.CodeUnexpectedEOF).
//		WithOperation("parser.Parse")
//
//	if prerror.HasCode(err, prerror.CodeUnexpectedEOF) {
//		// ask the user for more input
//	}
package error
