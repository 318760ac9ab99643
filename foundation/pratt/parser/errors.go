// File: errors.go
// Title: Parse Errors
// Description: Constructors for the parse error taxonomy. Every error is a
//              structured error carrying one of the syntax codes so callers
//              can branch with error.HasCode.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package parser

import (
	"fmt"

	prerror "github.com/msto63/pratt/foundation/core/error"
)

// IsParseError reports whether err is one of the parse errors the engine
// or the grouping parselet produce. Tokenization errors are not parse
// errors.
func IsParseError(err error) bool {
	switch prerror.GetCode(err) {
	case prerror.CodeUnexpectedEOF, prerror.CodeNoPrefixHandler,
		prerror.CodeExpectedToken, prerror.CodeTrailingInput:
		return true
	default:
		return false
	}
}

// describe renders a token for messages, preferring its text
func describe(tok Token) string {
	if t, ok := tok.(interface{ Text() string }); ok {
		return t.Text()
	}
	return tok.Identity()
}

func errUnexpectedEOF(position int) error {
	return prerror.New("parse error: unexpected end of input").
		WithCode(prerror.CodeUnexpectedEOF).
		WithOperation("parser.Parse").
		WithDetail("position", position)
}

func errNoPrefixHandler(tok Token, position int) error {
	return prerror.New(fmt.Sprintf("parse error at `%s`: no matching prefix parselet", describe(tok))).
		WithCode(prerror.CodeNoPrefixHandler).
		WithOperation("parser.Parse").
		WithDetail("token", describe(tok)).
		WithDetail("identity", tok.Identity()).
		WithDetail("position", position)
}

func errExpectedToken(expected string, found Token, position int) error {
	err := prerror.New(fmt.Sprintf("parse error: expected `%s`", expected)).
		WithCode(prerror.CodeExpectedToken).
		WithOperation("parser.Expect").
		WithDetail("expected", expected).
		WithDetail("position", position)
	if found != nil {
		err = err.WithDetail("found", describe(found))
	}
	return err
}

func errTrailingInput(tok Token, position, remaining int) error {
	return prerror.New(fmt.Sprintf("parse error at `%s`: unexpected trailing input", describe(tok))).
		WithCode(prerror.CodeTrailingInput).
		WithOperation("parser.Parse").
		WithDetail("token", describe(tok)).
		WithDetail("position", position).
		WithDetail("remaining", remaining)
}

func errInputTooLong(length, limit int) error {
	return prerror.New(fmt.Sprintf("input exceeds maximum length: %d > %d", length, limit)).
		WithCode(prerror.CodeInvalidInput).
		WithOperation("parser.Parse").
		WithDetail("length", length).
		WithDetail("limit", limit)
}
