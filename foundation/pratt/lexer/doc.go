// Package lexer turns input text into tokens using ordered lexical rules.
//
// Package: lexer
// Title: Rule-Driven Tokenizer
// Description: A Tokenizer is built from an ordered list of rules, each a
//              literal string or a regular expression. Tokenize scans the
//              input left to right, skips characters no rule matches and
//              classifies every extracted substring by the first declared
//              rule that matches it completely.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-17 v0.1.1: Classification of context-dependent matches
//
// Usage:
//
//	tok := lexer.MustNew(
//		lexer.Pattern("NUMBER", `\d+(?:\.\d+)?`),
//		lexer.Literal("+"),
//		lexer.Literal("*"),
//	)
//
//	tokens, err := tok.Tokenize("1 + 2 * 3")
//	// NUMBER "1", "+" "+", NUMBER "2", "*" "*", NUMBER "3"
//
// Rule order is the only tie-break. With Pattern("IDENT", `[a-z]+`)
// declared before Literal("if"), the input "if" becomes an IDENT token;
// declared after, it becomes an "if" token.
//
// A substring that no rule matches in isolation, which happens with
// context assertions such as \b or \B, takes the identity of the rule
// whose alternative matched it in place. Tokenize fails only when the
// input yields no token at all.
package lexer
