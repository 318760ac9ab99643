// File: calc.go
// Title: Arithmetic Calculator Grammar
// Description: A float64 calculator built on the Pratt parser: numbers,
//              the four basic operators, right-associative exponentiation,
//              unary minus, postfix negation and parentheses.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package calc

import (
	"math"
	"strconv"

	prerror "github.com/msto63/pratt/foundation/core/error"
	prlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/foundation/pratt/lexer"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// Precedence levels of the calculator operators
type Precedence int

const (
	AddSub Precedence = iota + 1
	MulDiv
	Exp
	Negate
)

// NumberID is the identity of number tokens
const NumberID = "NUMBER"

// Numbers come first so that no punctuation rule can shadow them
var tokenizer = lexer.MustNew(
	lexer.Pattern(NumberID, `\d+(?:\.\d+)?`),
	lexer.Literal("+"),
	lexer.Literal("-"),
	lexer.Literal("*"),
	lexer.Literal("/"),
	lexer.Literal("^"),
	lexer.Literal("("),
	lexer.Literal(")"),
	lexer.Literal("!"),
)

// Tokenizer returns the calculator's tokenizer
func Tokenizer() *lexer.Tokenizer {
	return tokenizer
}

// Options configures a Calculator
type Options struct {
	Logger         *prlog.Logger
	Strict         bool // reject trailing tokens such as "1 2"
	MaxInputLength int  // 0 disables the limit
}

// Calculator evaluates arithmetic expressions. It is safe for concurrent use.
type Calculator struct {
	parse  parser.ParseFunc[float64]
	logger *prlog.Logger
}

// New builds a calculator
func New(opts Options) (*Calculator, error) {
	if opts.Logger == nil {
		opts.Logger = prlog.GetDefault()
	}
	logger := opts.Logger.WithField("component", "calc")

	parse, err := Builder(
		parser.WithLogger(logger),
		parser.WithStrict(opts.Strict),
		parser.WithMaxInputLength(opts.MaxInputLength),
	).Build()
	if err != nil {
		return nil, prerror.Wrap(err, "failed to build calculator grammar").
			WithOperation("calc.New")
	}

	return &Calculator{parse: parse, logger: logger}, nil
}

// Builder returns a builder preloaded with the calculator grammar, so
// callers can extend it with further operators before constructing.
func Builder(opts ...parser.Option) *parser.Builder[float64, lexer.Token] {
	return parser.NewBuilder[float64, lexer.Token](tokenizer.Func(), opts...).
		RegisterPrefix(NumberID, parser.Value(number)).
		RegisterPrefix("(", parser.Grouping[float64, lexer.Token](")")).
		Prefix("-", int(Negate), func(_ lexer.Token, right float64) float64 { return -right }).
		Postfix("!", int(Negate), func(left float64, _ lexer.Token) float64 { return -left }).
		InfixRight("^", int(Exp), func(left float64, _ lexer.Token, right float64) float64 { return math.Pow(left, right) }).
		InfixLeft("/", int(MulDiv), func(left float64, _ lexer.Token, right float64) float64 { return left / right }).
		InfixLeft("*", int(MulDiv), func(left float64, _ lexer.Token, right float64) float64 { return left * right }).
		InfixLeft("+", int(AddSub), func(left float64, _ lexer.Token, right float64) float64 { return left + right }).
		InfixLeft("-", int(AddSub), func(left float64, _ lexer.Token, right float64) float64 { return left - right })
}

func number(tok lexer.Token) (float64, error) {
	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return 0, prerror.Wrap(err, "invalid number literal").
			WithCode(prerror.CodeInvalidInput).
			WithOperation("calc.number").
			WithDetail("value", tok.Value)
	}
	return v, nil
}

// Evaluate parses and evaluates input. Division by zero follows IEEE 754
// and yields an infinity or NaN rather than an error.
func (c *Calculator) Evaluate(input string) (float64, error) {
	v, err := c.parse(input)
	if err != nil {
		c.logger.Debug("evaluation failed", prlog.Fields{
			"input": input,
			"code":  prerror.GetCode(err),
		})
		return 0, err
	}
	return v, nil
}

// ParseFunc exposes the underlying parse function
func (c *Calculator) ParseFunc() parser.ParseFunc[float64] {
	return c.parse
}

// Evaluate evaluates input with a default calculator
func Evaluate(input string) (float64, error) {
	return defaultParse(input)
}

var defaultParse = Builder(parser.WithLogger(prlog.Discard())).Construct()
