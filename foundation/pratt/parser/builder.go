// File: builder.go
// Title: Fluent Parser Builder
// Description: Collects parselet registrations per token identity and
//              freezes them into a reentrant parse function. The operator
//              helpers encode associativity through the minimum precedence
//              of the right operand.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-17 v0.1.1: Reject negative prefix operand precedence,
//                      BuildCounting for single-pass token counts

package parser

import (
	"fmt"
	"sort"

	prerror "github.com/msto63/pratt/foundation/core/error"
	prlog "github.com/msto63/pratt/foundation/core/log"
)

// TokenSource turns input text into tokens, typically lexer.Tokenizer.Func()
type TokenSource[T Token] func(input string) ([]T, error)

// ParseFunc is the frozen parser returned by Construct. It is safe for
// concurrent use; each call tokenizes and parses with its own cursor.
type ParseFunc[E any] func(input string) (E, error)

// CountingParseFunc is a ParseFunc that also reports how many tokens the
// input produced, 0 when it was rejected before tokenization finished.
type CountingParseFunc[E any] func(input string) (E, int, error)

// ParseFunc drops the token count
func (f CountingParseFunc[E]) ParseFunc() ParseFunc[E] {
	return func(input string) (E, error) {
		result, _, err := f(input)
		return result, err
	}
}

// Option configures a Builder
type Option func(*options)

type options struct {
	strict         bool
	maxInputLength int
	logger         *prlog.Logger
}

// WithStrict rejects input that still has tokens after the top-level
// expression. Without it "1 2" parses as 1.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithMaxInputLength rejects input longer than n bytes before tokenizing.
// Zero or a negative n disables the limit.
func WithMaxInputLength(n int) Option {
	return func(o *options) {
		o.maxInputLength = n
	}
}

// WithLogger sets the logger for parse diagnostics. Per-token engine
// decisions are logged at trace level.
func WithLogger(logger *prlog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Builder accumulates registrations. It is not safe for concurrent use;
// the ParseFunc it constructs is. For each identity and role the last
// registration wins.
type Builder[E any, T Token] struct {
	source   TokenSource[T]
	registry *Registry[E, T]
	opts     options
	problems map[string]string // role:identity -> registration problem
}

// NewBuilder returns an empty builder tokenizing with source
func NewBuilder[E any, T Token](source TokenSource[T], opts ...Option) *Builder[E, T] {
	b := &Builder[E, T]{
		source:   source,
		registry: newRegistry[E, T](),
		problems: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&b.opts)
	}
	if b.opts.logger == nil {
		b.opts.logger = prlog.GetDefault()
	}
	b.opts.logger = b.opts.logger.WithField("component", "pratt-parser")
	return b
}

// RegisterPrefix registers a raw prefix parselet for id
func (b *Builder[E, T]) RegisterPrefix(id string, parselet PrefixParselet[E, T]) *Builder[E, T] {
	delete(b.problems, "prefix:"+id)
	b.registry.setPrefix(id, parselet)
	return b
}

// RegisterInfix registers a raw infix parselet for id
func (b *Builder[E, T]) RegisterInfix(id string, parselet InfixParselet[E, T]) *Builder[E, T] {
	delete(b.problems, "infix:"+id)
	if parselet != nil {
		b.checkPrecedence(id, parselet.Precedence())
	}
	b.registry.setInfix(id, parselet)
	return b
}

// Prefix registers a prefix operator whose operand is parsed at prec
func (b *Builder[E, T]) Prefix(id string, prec int, combine func(tok T, right E) E) *Builder[E, T] {
	b.RegisterPrefix(id, prefixOperator[E, T]{prec: prec, combine: combine})
	if prec < 0 {
		b.problems["prefix:"+id] = fmt.Sprintf("prefix %q has precedence %d, must not be negative", id, prec)
	}
	return b
}

// Postfix registers an operator that applies to the left operand and
// consumes no right operand
func (b *Builder[E, T]) Postfix(id string, prec int, combine func(left E, tok T) E) *Builder[E, T] {
	return b.RegisterInfix(id, postfixOperator[E, T]{prec: prec, combine: combine})
}

// InfixLeft registers a left-associative binary operator. The right
// operand is parsed at prec so an equal-precedence operator that follows
// is applied to the combined left value instead.
func (b *Builder[E, T]) InfixLeft(id string, prec int, combine func(left E, tok T, right E) E) *Builder[E, T] {
	return b.RegisterInfix(id, binaryOperator[E, T]{prec: prec, rightPrec: prec, combine: combine})
}

// InfixRight registers a right-associative binary operator. The right
// operand is parsed at prec-1 so an equal-precedence operator that follows
// is absorbed into the right operand.
func (b *Builder[E, T]) InfixRight(id string, prec int, combine func(left E, tok T, right E) E) *Builder[E, T] {
	return b.RegisterInfix(id, binaryOperator[E, T]{prec: prec, rightPrec: prec - 1, combine: combine})
}

// checkPrecedence records infix precedences the engine could never reach
func (b *Builder[E, T]) checkPrecedence(id string, prec int) {
	if prec <= 0 {
		b.problems["infix:"+id] = fmt.Sprintf("infix %q has precedence %d, must be positive", id, prec)
	}
}

// Registry returns a frozen snapshot of the current registrations
func (b *Builder[E, T]) Registry() *Registry[E, T] {
	return b.registry.clone()
}

// Build validates the registrations and freezes them into a ParseFunc.
// Later builder calls do not affect the returned function.
func (b *Builder[E, T]) Build() (ParseFunc[E], error) {
	fn, err := b.BuildCounting()
	if err != nil {
		return nil, err
	}
	return fn.ParseFunc(), nil
}

// BuildCounting is Build for callers that also need the token count of
// each input without tokenizing it a second time.
func (b *Builder[E, T]) BuildCounting() (CountingParseFunc[E], error) {
	if b.source == nil {
		return nil, prerror.New("builder has no token source").
			WithCode(prerror.CodeInvalidGrammar).
			WithOperation("parser.Build")
	}
	if len(b.problems) > 0 {
		problems := make([]string, 0, len(b.problems))
		for _, problem := range b.problems {
			problems = append(problems, problem)
		}
		sort.Strings(problems)
		return nil, prerror.New("invalid parselet registration: " + problems[0]).
			WithCode(prerror.CodeInvalidGrammar).
			WithOperation("parser.Build").
			WithDetail("problems", problems)
	}

	registry := b.registry.clone()
	source := b.source
	opts := b.opts

	return func(input string) (E, int, error) {
		var zero E

		if opts.maxInputLength > 0 && len(input) > opts.maxInputLength {
			return zero, 0, errInputTooLong(len(input), opts.maxInputLength)
		}

		tokens, err := source(input)
		if err != nil {
			return zero, 0, err
		}

		p := NewParser(tokens, registry).withLogger(opts.logger)
		result, err := p.Parse(0)
		if err != nil {
			return zero, len(tokens), err
		}

		if opts.strict && p.Remaining() > 0 {
			tok, _ := p.Peek()
			return zero, len(tokens), errTrailingInput(tok, p.Position(), p.Remaining())
		}

		return result, len(tokens), nil
	}, nil
}

// Construct is Build for grammars known to be valid. An invalid builder
// yields a ParseFunc that returns the build error on every call.
func (b *Builder[E, T]) Construct() ParseFunc[E] {
	fn, err := b.Build()
	if err != nil {
		return func(string) (E, error) {
			var zero E
			return zero, err
		}
	}
	return fn
}
