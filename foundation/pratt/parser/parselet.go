// File: parselet.go
// Title: Parselet Abstractions
// Description: Defines the prefix and infix parselet capabilities the engine
//              dispatches to, function adapters for both, the operator
//              parselets the builder generates and the grouping parselet.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package parser

// Token is the only thing the engine needs from a token: its identity.
// Tokens that also implement Text() string get their text quoted in
// error messages.
type Token interface {
	Identity() string
}

// PrefixParselet handles a token that opens an expression. It returns a
// leaf value or recurses into the parser for nested structure.
type PrefixParselet[E any, T Token] interface {
	Parse(p *Parser[E, T], tok T) (E, error)
}

// InfixParselet handles a token that continues an expression after a left
// operand. Its precedence decides whether the engine hands it the left
// operand at all.
type InfixParselet[E any, T Token] interface {
	Precedence() int
	Parse(p *Parser[E, T], left E, tok T) (E, error)
}

// PrefixFunc adapts a function to PrefixParselet
type PrefixFunc[E any, T Token] func(p *Parser[E, T], tok T) (E, error)

// Parse calls f(p, tok)
func (f PrefixFunc[E, T]) Parse(p *Parser[E, T], tok T) (E, error) {
	return f(p, tok)
}

// InfixFunc adapts a function and a precedence to InfixParselet
type InfixFunc[E any, T Token] struct {
	Prec int
	Fn   func(p *Parser[E, T], left E, tok T) (E, error)
}

// Precedence returns Prec
func (f InfixFunc[E, T]) Precedence() int {
	return f.Prec
}

// Parse calls Fn(p, left, tok)
func (f InfixFunc[E, T]) Parse(p *Parser[E, T], left E, tok T) (E, error) {
	return f.Fn(p, left, tok)
}

// Value returns a prefix parselet producing a leaf from the token alone,
// e.g. a number literal.
func Value[E any, T Token](leaf func(tok T) (E, error)) PrefixParselet[E, T] {
	return PrefixFunc[E, T](func(_ *Parser[E, T], tok T) (E, error) {
		return leaf(tok)
	})
}

// Grouping returns a prefix parselet that parses a sub-expression at
// precedence 0 and then requires the closing identity.
func Grouping[E any, T Token](closing string) PrefixParselet[E, T] {
	return grouping[E, T]{closing: closing}
}

type grouping[E any, T Token] struct {
	closing string
}

func (g grouping[E, T]) Parse(p *Parser[E, T], _ T) (E, error) {
	inner, err := p.Parse(0)
	if err != nil {
		return inner, err
	}
	if _, err := p.Expect(g.closing); err != nil {
		var zero E
		return zero, err
	}
	return inner, nil
}

type prefixOperator[E any, T Token] struct {
	prec    int
	combine func(tok T, right E) E
}

func (o prefixOperator[E, T]) Parse(p *Parser[E, T], tok T) (E, error) {
	right, err := p.Parse(o.prec)
	if err != nil {
		return right, err
	}
	return o.combine(tok, right), nil
}

type postfixOperator[E any, T Token] struct {
	prec    int
	combine func(left E, tok T) E
}

func (o postfixOperator[E, T]) Precedence() int {
	return o.prec
}

// Parse consumes no right operand
func (o postfixOperator[E, T]) Parse(_ *Parser[E, T], left E, tok T) (E, error) {
	return o.combine(left, tok), nil
}

// binaryOperator parses its right operand at rightPrec: the operator's
// own precedence for left associativity, one less for right associativity.
type binaryOperator[E any, T Token] struct {
	prec      int
	rightPrec int
	combine   func(left E, tok T, right E) E
}

func (o binaryOperator[E, T]) Precedence() int {
	return o.prec
}

func (o binaryOperator[E, T]) Parse(p *Parser[E, T], left E, tok T) (E, error) {
	right, err := p.Parse(o.rightPrec)
	if err != nil {
		return right, err
	}
	return o.combine(left, tok, right), nil
}
