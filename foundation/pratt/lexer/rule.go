// File: rule.go
// Title: Lexical Rules
// Description: Defines the ordered lexical rules a Tokenizer is built from.
//              A rule pairs a token identity with either a literal pattern
//              or a regular expression.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package lexer

import (
	"regexp"
)

// Rule is one lexical rule. When Regex is false, Pattern is matched
// literally and all regular expression metacharacters are escaped.
type Rule struct {
	ID      string
	Pattern string
	Regex   bool
}

// Literal returns a literal rule whose identity is the pattern itself
func Literal(pattern string) Rule {
	return Rule{ID: pattern, Pattern: pattern}
}

// Named returns a literal rule with an explicit identity
func Named(id, pattern string) Rule {
	return Rule{ID: id, Pattern: pattern}
}

// Pattern returns a regular expression rule
func Pattern(id, expr string) Rule {
	return Rule{ID: id, Pattern: expr, Regex: true}
}

// Literals returns one literal rule per pattern, preserving order
func Literals(patterns ...string) []Rule {
	rules := make([]Rule, len(patterns))
	for i, p := range patterns {
		rules[i] = Literal(p)
	}
	return rules
}

// identity falls back to the pattern for rules declared without an ID
func (r Rule) identity() string {
	if r.ID == "" {
		return r.Pattern
	}
	return r.ID
}

// source returns the regular expression source of the rule
func (r Rule) source() string {
	if r.Regex {
		return r.Pattern
	}
	return regexp.QuoteMeta(r.Pattern)
}

// String renders the rule the way it is declared in grammar files
func (r Rule) String() string {
	if r.Regex {
		return r.identity() + " /" + r.Pattern + "/"
	}
	return r.identity() + " " + `"` + r.Pattern + `"`
}
