// File: parser.go
// Title: Precedence Climbing Engine
// Description: Implements the Pratt parser engine: an index cursor over one
//              token sequence plus a read-only registry. Associativity and
//              precedence live entirely in the minimum precedence each
//              parselet passes back into Parse.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-17 v0.1.1: Stop the continuation loop at tokens without an
//                      infix role, independent of the floor

package parser

import (
	prlog "github.com/msto63/pratt/foundation/core/log"
)

// Parser owns the cursor of a single top-level parse. It is not safe for
// concurrent use; ParseFunc creates a fresh Parser per call.
type Parser[E any, T Token] struct {
	tokens   []T
	pos      int
	registry *Registry[E, T]
	logger   *prlog.Logger
	trace    bool
}

// NewParser returns an engine over tokens. Most callers use
// Builder.Construct instead; NewParser serves parselets and tests that
// drive the engine by hand.
func NewParser[E any, T Token](tokens []T, registry *Registry[E, T]) *Parser[E, T] {
	if registry == nil {
		registry = newRegistry[E, T]()
	}
	return &Parser[E, T]{tokens: tokens, registry: registry}
}

func (p *Parser[E, T]) withLogger(logger *prlog.Logger) *Parser[E, T] {
	if logger != nil {
		p.logger = logger
		p.trace = logger.IsLevelEnabled(prlog.LevelTrace)
	}
	return p
}

// Parse parses one expression whose operators all bind tighter than
// minPrecedence. The continuation loop stops at exhausted input, at a
// token without an infix role and at the first infix precedence that is
// not strictly greater than minPrecedence.
func (p *Parser[E, T]) Parse(minPrecedence int) (E, error) {
	var zero E

	tok, ok := p.Next()
	if !ok {
		return zero, errUnexpectedEOF(p.pos)
	}

	prefix, ok := p.registry.Prefix(tok.Identity())
	if !ok {
		return zero, errNoPrefixHandler(tok, p.pos-1)
	}

	if p.trace {
		p.logger.Trace("prefix", prlog.Fields{"identity": tok.Identity(), "min_precedence": minPrecedence})
	}

	left, err := prefix.Parse(p, tok)
	if err != nil {
		return zero, err
	}

	for {
		infix, ok := p.nextInfix()
		if !ok || infix.Precedence() <= minPrecedence {
			break
		}
		tok, _ = p.Next()

		if p.trace {
			p.logger.Trace("infix", prlog.Fields{
				"identity":       tok.Identity(),
				"precedence":     infix.Precedence(),
				"min_precedence": minPrecedence,
			})
		}

		left, err = infix.Parse(p, left, tok)
		if err != nil {
			return zero, err
		}
	}

	return left, nil
}

// nextInfix returns the infix parselet of the next unconsumed token
func (p *Parser[E, T]) nextInfix() (InfixParselet[E, T], bool) {
	tok, ok := p.Peek()
	if !ok {
		return nil, false
	}
	return p.registry.Infix(tok.Identity())
}

// Match consumes the next token if its identity is id
func (p *Parser[E, T]) Match(id string) bool {
	tok, ok := p.Peek()
	if !ok || tok.Identity() != id {
		return false
	}
	p.pos++
	return true
}

// Expect consumes and returns the next token if its identity is id,
// otherwise fails with an expected-token error and leaves the cursor.
func (p *Parser[E, T]) Expect(id string) (T, error) {
	tok, ok := p.Peek()
	if !ok {
		var zero T
		return zero, errExpectedToken(id, nil, p.pos)
	}
	if tok.Identity() != id {
		return tok, errExpectedToken(id, tok, p.pos)
	}
	p.pos++
	return tok, nil
}

// Peek returns the next token without consuming it
func (p *Parser[E, T]) Peek() (T, bool) {
	if p.pos >= len(p.tokens) {
		var zero T
		return zero, false
	}
	return p.tokens[p.pos], true
}

// Next consumes and returns the next token
func (p *Parser[E, T]) Next() (T, bool) {
	tok, ok := p.Peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// Remaining returns the number of unconsumed tokens
func (p *Parser[E, T]) Remaining() int {
	return len(p.tokens) - p.pos
}

// Position returns the index of the next unconsumed token
func (p *Parser[E, T]) Position() int {
	return p.pos
}

// Registry returns the registry the parser dispatches through
func (p *Parser[E, T]) Registry() *Registry[E, T] {
	return p.registry
}
