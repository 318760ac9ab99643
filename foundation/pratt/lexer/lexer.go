// File: lexer.go
// Title: Rule-Driven Tokenizer
// Description: Converts input text into an ordered token sequence. A single
//              combined alternation extracts substrings left to right; the
//              anchored per-rule matchers then assign each substring the
//              identity of the first rule declared that fully matches it.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-17 v0.1.1: Fall back to the matching alternative when no rule
//                      fully matches a substring in isolation

package lexer

import (
	"fmt"
	"regexp"
	"strings"

	prerror "github.com/msto63/pratt/foundation/core/error"
	prstringx "github.com/msto63/pratt/foundation/utils/stringx"
)

// Token is a classified substring of the input. Tokens are values and are
// never modified after Tokenize returns them.
type Token struct {
	ID      string         // identity of the rule that classified Value
	Pattern *regexp.Regexp // that rule's compiled pattern
	Value   string         // matched substring
	Offset  int            // byte offset of Value in the input
}

// Identity returns the token identity used for parselet dispatch
func (t Token) Identity() string {
	return t.ID
}

// Text returns the matched substring
func (t Token) Text() string {
	return t.Value
}

// String returns a readable representation of the token
func (t Token) String() string {
	if t.ID == t.Value {
		return fmt.Sprintf("%q@%d", t.Value, t.Offset)
	}
	return fmt.Sprintf("%s(%q)@%d", t.ID, t.Value, t.Offset)
}

type matcher struct {
	id      string
	pattern *regexp.Regexp // unanchored, attached to tokens
	full    *regexp.Regexp // anchored, used for classification
	group   int            // capture group of the rule in the combined matcher
}

// Tokenizer is immutable after New and safe for concurrent use
type Tokenizer struct {
	rules    []Rule
	matchers []matcher
	combined *regexp.Regexp
}

// New compiles the rules into a Tokenizer. Rule order is significant:
// when several rules match at the same offset the earliest declared wins,
// there is no longest-match. Declare multi-character literals and numbers
// before single-character punctuation.
func New(rules ...Rule) (*Tokenizer, error) {
	if len(rules) == 0 {
		return nil, prerror.New("tokenizer requires at least one rule").
			WithCode(prerror.CodeInvalidGrammar).
			WithOperation("lexer.New")
	}

	t := &Tokenizer{
		rules:    make([]Rule, len(rules)),
		matchers: make([]matcher, len(rules)),
	}

	sources := make([]string, len(rules))
	group := 1
	for i, rule := range rules {
		if rule.Pattern == "" {
			return nil, prerror.New(fmt.Sprintf("rule %d has an empty pattern", i)).
				WithCode(prerror.CodeInvalidGrammar).
				WithOperation("lexer.New").
				WithDetail("rule", rule.ID)
		}

		src := rule.source()
		pattern, err := regexp.Compile(src)
		if err != nil {
			return nil, prerror.Wrap(err, fmt.Sprintf("invalid pattern for rule %s", rule.identity())).
				WithCode(prerror.CodeInvalidGrammar).
				WithOperation("lexer.New").
				WithDetail("rule", rule.identity()).
				WithDetail("pattern", rule.Pattern)
		}

		t.rules[i] = Rule{ID: rule.identity(), Pattern: rule.Pattern, Regex: rule.Regex}
		t.matchers[i] = matcher{
			id:      rule.identity(),
			pattern: pattern,
			full:    regexp.MustCompile(`^(?:` + src + `)$`),
			group:   group,
		}
		sources[i] = "(" + src + ")"
		group += 1 + pattern.NumSubexp()
	}

	// Go's alternation is leftmost-first, which keeps declaration order
	// as the tie-break at a given offset.
	t.combined = regexp.MustCompile(strings.Join(sources, "|"))

	return t, nil
}

// MustNew is like New but panics on an invalid rule set. Intended for
// grammars declared as package-level variables.
func MustNew(rules ...Rule) *Tokenizer {
	t, err := New(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Tokenize extracts every non-overlapping match from input. Characters no
// rule matches are skipped. Input that yields no token at all is a
// tokenization error.
func (t *Tokenizer) Tokenize(input string) ([]Token, error) {
	spans := t.combined.FindAllStringSubmatchIndex(input, -1)

	tokens := make([]Token, 0, len(spans))
	for _, span := range spans {
		if span[0] == span[1] {
			continue
		}
		value := input[span[0]:span[1]]

		m, ok := t.classify(value)
		if !ok {
			// Context assertions such as \b can match in place but not
			// in isolation; the alternative that matched classifies.
			m = t.matched(span)
		}

		tokens = append(tokens, Token{
			ID:      m.id,
			Pattern: m.pattern,
			Value:   value,
			Offset:  span[0],
		})
	}

	if len(tokens) == 0 {
		return nil, prerror.New("could not tokenize input").
			WithCode(prerror.CodeTokenization).
			WithOperation("lexer.Tokenize").
			WithDetail("input", prstringx.Truncate(input, 64, "..."))
	}

	return tokens, nil
}

// classify returns the first declared rule that fully matches value
func (t *Tokenizer) classify(value string) (matcher, bool) {
	for _, m := range t.matchers {
		if m.full.MatchString(value) {
			return m, true
		}
	}
	return matcher{}, false
}

// matched returns the rule whose alternative produced span
func (t *Tokenizer) matched(span []int) matcher {
	for _, m := range t.matchers {
		if span[2*m.group] >= 0 {
			return m
		}
	}
	return t.matchers[0]
}

// Func adapts the Tokenizer to the token source signature used by the
// parser builder.
func (t *Tokenizer) Func() func(string) ([]Token, error) {
	return t.Tokenize
}

// Rules returns a copy of the normalized rules in declaration order
func (t *Tokenizer) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Identities returns the distinct token identities in declaration order
func (t *Tokenizer) Identities() []string {
	seen := make(map[string]bool, len(t.rules))
	ids := make([]string, 0, len(t.rules))
	for _, r := range t.rules {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	return ids
}
