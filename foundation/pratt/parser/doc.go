// Package parser implements a generic Pratt (operator-precedence) parser.
//
// Package: parser
// Title: Pratt Parser Engine and Builder
// Description: A Builder maps token identities to prefix and infix
//              parselets and freezes them into a ParseFunc. The engine
//              consumes tokens strictly left to right and resolves
//              precedence and associativity through the minimum precedence
//              each parselet passes to Parser.Parse.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
//
// Usage:
//
//	tok := lexer.MustNew(lexer.Pattern("NUMBER", `\d+`), lexer.Literal("+"), lexer.Literal("^"))
//
//	parse := parser.NewBuilder[float64, lexer.Token](tok.Func()).
//		RegisterPrefix("NUMBER", parser.Value(func(t lexer.Token) (float64, error) {
//			return strconv.ParseFloat(t.Value, 64)
//		})).
//		InfixLeft("+", 1, func(l float64, _ lexer.Token, r float64) float64 { return l + r }).
//		InfixRight("^", 3, func(l float64, _ lexer.Token, r float64) float64 { return math.Pow(l, r) }).
//		Construct()
//
//	v, err := parse("2 ^ 3 ^ 2 + 1") // 513
//
// Errors carry the codes of the structured error package:
// CodeUnexpectedEOF, CodeNoPrefixHandler, CodeExpectedToken and, with
// WithStrict, CodeTrailingInput. Tokenizer failures pass through unchanged.
package parser
