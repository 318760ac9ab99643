// File: lexer_test.go
// Title: Tokenizer Tests
// Description: Tests for rule compilation, token extraction, skipping of
//              unmatched characters and declaration-order tie-breaking.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-16 v0.1.0: Initial tests
// - 2026-10-17 v0.1.1: Context assertions and rules with capture groups

package lexer

import (
	"sync"
	"testing"

	prerror "github.com/msto63/pratt/foundation/core/error"
)

func calcRules() []Rule {
	return append([]Rule{Pattern("NUMBER", `\d+(?:\.\d+)?`)}, Literals("+", "-", "*", "/", "^", "(", ")", "!")...)
}

func identities(tokens []Token) []string {
	ids := make([]string, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.Identity()
	}
	return ids
}

func values(tokens []Token) []string {
	vals := make([]string, len(tokens))
	for i, tok := range tokens {
		vals[i] = tok.Value
	}
	return vals
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenize(t *testing.T) {
	tok := MustNew(calcRules()...)

	tests := []struct {
		name   string
		input  string
		ids    []string
		values []string
	}{
		{
			name:   "arithmetic",
			input:  "1 + 2 * 3",
			ids:    []string{"NUMBER", "+", "NUMBER", "*", "NUMBER"},
			values: []string{"1", "+", "2", "*", "3"},
		},
		{
			name:   "no whitespace",
			input:  "3.5^(2-1)",
			ids:    []string{"NUMBER", "^", "(", "NUMBER", "-", "NUMBER", ")"},
			values: []string{"3.5", "^", "(", "2", "-", "1", ")"},
		},
		{
			name:   "postfix",
			input:  "4!",
			ids:    []string{"NUMBER", "!"},
			values: []string{"4", "!"},
		},
		{
			name:   "unmatched characters are skipped",
			input:  "  1 ? 2 # 3\t",
			ids:    []string{"NUMBER", "NUMBER", "NUMBER"},
			values: []string{"1", "2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := tok.Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.input, err)
			}
			if got := identities(tokens); !equal(got, tt.ids) {
				t.Errorf("identities = %v, want %v", got, tt.ids)
			}
			if got := values(tokens); !equal(got, tt.values) {
				t.Errorf("values = %v, want %v", got, tt.values)
			}
		})
	}
}

func TestTokenOffsetsAndPattern(t *testing.T) {
	tok := MustNew(calcRules()...)

	tokens, err := tok.Tokenize("12 + 345")
	if err != nil {
		t.Fatal(err)
	}

	wantOffsets := []int{0, 3, 5}
	for i, want := range wantOffsets {
		if tokens[i].Offset != want {
			t.Errorf("tokens[%d].Offset = %d, want %d", i, tokens[i].Offset, want)
		}
	}
	if tokens[0].Pattern == nil || !tokens[0].Pattern.MatchString("99") {
		t.Errorf("NUMBER token should carry its rule pattern, got %v", tokens[0].Pattern)
	}
	if tokens[1].Pattern.String() != `\+` {
		t.Errorf("literal pattern should be escaped, got %q", tokens[1].Pattern.String())
	}
}

func TestTieBreakByDeclarationOrder(t *testing.T) {
	ident := Pattern("IDENT", `[a-z]+`)
	keyword := Named("IF", "if")

	tests := []struct {
		name  string
		rules []Rule
		input string
		ids   []string
	}{
		{"identifier first wins", []Rule{ident, keyword}, "if", []string{"IDENT"}},
		{"keyword first wins", []Rule{keyword, ident}, "if", []string{"IF"}},
		{"keyword first splits longer word", []Rule{keyword, ident}, "iffy", []string{"IF", "IDENT"}},
		{"identifier first keeps longer word", []Rule{ident, keyword}, "iffy", []string{"IDENT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := MustNew(tt.rules...).Tokenize(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := identities(tokens); !equal(got, tt.ids) {
				t.Errorf("identities = %v, want %v", got, tt.ids)
			}
		})
	}
}

func TestNoLongestMatch(t *testing.T) {
	// "*" declared before "**" always wins at the same offset
	short := MustNew(Literal("*"), Literal("**"), Pattern("NUMBER", `\d+`))
	tokens, err := short.Tokenize("2**3")
	if err != nil {
		t.Fatal(err)
	}
	if got := identities(tokens); !equal(got, []string{"NUMBER", "*", "*", "NUMBER"}) {
		t.Errorf("short-first identities = %v", got)
	}

	long := MustNew(Literal("**"), Literal("*"), Pattern("NUMBER", `\d+`))
	tokens, err = long.Tokenize("2**3")
	if err != nil {
		t.Fatal(err)
	}
	if got := identities(tokens); !equal(got, []string{"NUMBER", "**", "NUMBER"}) {
		t.Errorf("long-first identities = %v", got)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tok := MustNew(calcRules()...)

	for _, input := range []string{"", "   ", "abc", "?#"} {
		t.Run(input, func(t *testing.T) {
			tokens, err := tok.Tokenize(input)
			if !prerror.HasCode(err, prerror.CodeTokenization) {
				t.Errorf("Tokenize(%q) error = %v, want tokenization error", input, err)
			}
			if tokens != nil {
				t.Errorf("Tokenize(%q) returned tokens on error", input)
			}
		})
	}
}

func TestContextAssertions(t *testing.T) {
	// `\Bx` matches inside a word but never as a standalone "x"
	tok := MustNew(
		Pattern("WORD", `[a-w]+`),
		Pattern("PAIR", `(\d)(\d)`),
		Pattern("SUFFIX", `\Bx`),
	)

	tokens, err := tok.Tokenize("abx 12")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if got := identities(tokens); !equal(got, []string{"WORD", "SUFFIX", "PAIR"}) {
		t.Fatalf("identities = %v", got)
	}
	suffix := tokens[1]
	if suffix.Value != "x" || suffix.Offset != 2 || suffix.Pattern.String() != `\Bx` {
		t.Errorf("suffix token = %+v", suffix)
	}
}

func TestEmptyMatchesDropped(t *testing.T) {
	tok := MustNew(Pattern("DIGITS", `\d*`))

	tokens, err := tok.Tokenize("a1b22")
	if err != nil {
		t.Fatal(err)
	}
	if got := values(tokens); !equal(got, []string{"1", "22"}) {
		t.Errorf("values = %v, want [1 22]", got)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"no rules", nil},
		{"empty pattern", []Rule{Literal("")}},
		{"invalid regex", []Rule{Pattern("BAD", `(\d+`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rules...)
			if !prerror.HasCode(err, prerror.CodeInvalidGrammar) {
				t.Errorf("New() error = %v, want invalid grammar", err)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew() with invalid regex should panic")
		}
	}()
	MustNew(Pattern("BAD", `[`))
}

func TestRulesAndIdentities(t *testing.T) {
	tok := MustNew(Rule{Pattern: "+"}, Named("PLUS", "plus"), Pattern("NUMBER", `\d+`), Named("PLUS", "and"))

	rules := tok.Rules()
	if rules[0].ID != "+" {
		t.Errorf("rule without ID should take its pattern, got %q", rules[0].ID)
	}
	rules[0].ID = "mutated"
	if tok.Rules()[0].ID != "+" {
		t.Error("Rules() must return a copy")
	}

	if got := tok.Identities(); !equal(got, []string{"+", "PLUS", "NUMBER"}) {
		t.Errorf("Identities() = %v", got)
	}

	tokens, err := tok.Tokenize("1 and 2 plus 3")
	if err != nil {
		t.Fatal(err)
	}
	if got := identities(tokens); !equal(got, []string{"NUMBER", "PLUS", "NUMBER", "PLUS", "NUMBER"}) {
		t.Errorf("identities = %v", got)
	}
}

func TestConcurrentTokenize(t *testing.T) {
	tok := MustNew(calcRules()...)
	fn := tok.Func()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens, err := fn("1 + 2 * (3 - 4)")
			if err != nil || len(tokens) != 9 {
				t.Errorf("concurrent Tokenize() = %d tokens, %v", len(tokens), err)
			}
		}()
	}
	wg.Wait()
}

func TestRuleString(t *testing.T) {
	if got := Pattern("NUMBER", `\d+`).String(); got != `NUMBER /\d+/` {
		t.Errorf("String() = %q", got)
	}
	if got := Literal("+").String(); got != `+ "+"` {
		t.Errorf("String() = %q", got)
	}
}
