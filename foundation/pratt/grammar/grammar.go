// File: grammar.go
// Title: Declarative Grammar Definitions
// Description: Loads operator tables from TOML or YAML files, validates them
//              and compiles them into float64 parse functions. A definition
//              lists ordered lexical rules and, per token, the role the
//              token plays: literal, group, prefix, postfix or infix.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-17 v0.1.1: CompileCounting for single-pass token counts

package grammar

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	prconfig "github.com/msto63/pratt/foundation/core/config"
	prerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/lexer"
	"github.com/msto63/pratt/foundation/pratt/parser"
	prstringx "github.com/msto63/pratt/foundation/utils/stringx"
)

// Kind is the role an operator entry assigns to its token
type Kind string

const (
	KindLiteral    Kind = "literal"
	KindGroup      Kind = "group"
	KindPrefix     Kind = "prefix"
	KindPostfix    Kind = "postfix"
	KindInfixLeft  Kind = "infix-left"
	KindInfixRight Kind = "infix-right"
)

// isInfix reports whether the kind occupies the infix role of its token
func (k Kind) isInfix() bool {
	return k == KindPostfix || k == KindInfixLeft || k == KindInfixRight
}

// RuleDef is one lexical rule. An empty ID defaults to the pattern.
type RuleDef struct {
	ID      string `toml:"id" yaml:"id"`
	Pattern string `toml:"pattern" yaml:"pattern"`
	Regex   bool   `toml:"regex" yaml:"regex"`
}

// OperatorDef binds a token identity to a role
type OperatorDef struct {
	Token      string `toml:"token" yaml:"token"`
	Kind       Kind   `toml:"kind" yaml:"kind"`
	Precedence int    `toml:"precedence" yaml:"precedence"`
	Op         string `toml:"op" yaml:"op"`
	Closing    string `toml:"closing" yaml:"closing"`
}

// Definition is a complete grammar
type Definition struct {
	Name           string        `toml:"name" yaml:"name"`
	Description    string        `toml:"description" yaml:"description"`
	Strict         bool          `toml:"strict" yaml:"strict"`
	MaxInputLength int           `toml:"max_input_length" yaml:"max_input_length"`
	Rules          []RuleDef     `toml:"rules" yaml:"rules"`
	Operators      []OperatorDef `toml:"operators" yaml:"operators"`

	// Source is the file the definition was loaded from, if any
	Source string `toml:"-" yaml:"-"`
}

//go:embed builtin/calc.toml
var builtinCalc []byte

// Builtin returns the built-in calculator definition
func Builtin() *Definition {
	def, err := Parse(builtinCalc, prconfig.FormatTOML)
	if err != nil {
		panic(err)
	}
	def.Source = "builtin:calc"
	return def
}

// Load reads a definition file. The format follows the file extension.
func Load(path string) (*Definition, error) {
	content, err := prconfig.ReadFile(path)
	if err != nil {
		return nil, err
	}

	def, err := Parse(content, prconfig.DetectFormat(path))
	if err != nil {
		return nil, prerror.Wrap(err, "failed to load grammar "+path).
			WithOperation("grammar.Load").
			WithDetail("path", path)
	}
	def.Source = path
	return def, nil
}

// Parse decodes a definition from TOML or YAML content
func Parse(content []byte, format prconfig.Format) (*Definition, error) {
	var def Definition
	if err := prconfig.Decode(content, format, &def); err != nil {
		return nil, prerror.Wrap(err, "invalid grammar document").
			WithCode(prerror.CodeInvalidGrammar).
			WithOperation("grammar.Parse")
	}
	return &def, nil
}

// lexerRules converts the rule definitions in declaration order
func (d *Definition) lexerRules() []lexer.Rule {
	rules := make([]lexer.Rule, len(d.Rules))
	for i, r := range d.Rules {
		rules[i] = lexer.Rule{ID: r.ID, Pattern: r.Pattern, Regex: r.Regex}
	}
	return rules
}

// Validate checks the definition and reports every problem at once
func (d *Definition) Validate() error {
	_, err := d.validate()
	return err
}

func (d *Definition) validate() (*lexer.Tokenizer, error) {
	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	tok, err := lexer.New(d.lexerRules()...)
	if err != nil {
		addf("rules: %s", errorMessage(err))
	}

	declared := make(map[string]bool)
	if tok != nil {
		for _, id := range tok.Identities() {
			declared[id] = true
		}
	}

	if len(d.Operators) == 0 {
		addf("operators: at least one operator is required")
	}

	roles := make(map[string]int) // "prefix:id" / "infix:id" -> operator index
	hasLiteral := false

	for i, op := range d.Operators {
		where := fmt.Sprintf("operators[%d] %q", i, op.Token)

		if op.Token == "" {
			addf("operators[%d]: token is required", i)
			continue
		}
		if tok != nil && !declared[op.Token] {
			addf("%s: token is not declared by any rule", where)
		}

		role := "prefix:" + op.Token
		if op.Kind.isInfix() {
			role = "infix:" + op.Token
		}
		if prev, dup := roles[role]; dup {
			addf("%s: %s role already defined by operators[%d]", where, strings.SplitN(role, ":", 2)[0], prev)
		}
		roles[role] = i

		switch op.Kind {
		case KindLiteral:
			hasLiteral = true
		case KindGroup:
			if op.Closing == "" {
				addf("%s: group requires a closing token", where)
			} else if tok != nil && !declared[op.Closing] {
				addf("%s: closing token %q is not declared by any rule", where, op.Closing)
			}
		case KindPrefix, KindPostfix:
			if _, ok := unaryOps[op.Op]; !ok {
				addf("%s: unknown unary op %q (want one of %s)", where, op.Op, strings.Join(UnaryOps(), ", "))
			}
		case KindInfixLeft, KindInfixRight:
			if _, ok := binaryOps[op.Op]; !ok {
				addf("%s: unknown binary op %q (want one of %s)", where, op.Op, strings.Join(BinaryOps(), ", "))
			}
		default:
			addf("%s: unknown kind %q", where, op.Kind)
		}

		if op.Kind.isInfix() && op.Precedence <= 0 {
			addf("%s: %s precedence must be positive", where, op.Kind)
		}
		if op.Kind == KindPrefix && op.Precedence < 0 {
			addf("%s: prefix precedence must not be negative", where)
		}
	}

	if len(d.Operators) > 0 && !hasLiteral {
		addf("operators: no literal operator, no expression could ever start")
	}
	if d.MaxInputLength < 0 {
		addf("max_input_length: must not be negative")
	}

	if len(problems) > 0 {
		name := prstringx.FirstNonBlank(d.Name, d.Source)
		return nil, prerror.New(fmt.Sprintf("invalid grammar %s: %s", name, strings.Join(problems, "; "))).
			WithCode(prerror.CodeInvalidGrammar).
			WithOperation("grammar.Validate").
			WithDetail("problems", problems)
	}
	return tok, nil
}

// errorMessage returns the message of the outermost structured error
func errorMessage(err error) string {
	if perr, ok := prerror.As(err); ok {
		if cause := perr.Unwrap(); cause != nil {
			return perr.Message() + ": " + cause.Error()
		}
		return perr.Message()
	}
	return err.Error()
}

// Compile validates the definition and builds its parse function. The
// definition's strict and max_input_length settings are applied before
// opts, so opts take precedence.
func (d *Definition) Compile(opts ...parser.Option) (parser.ParseFunc[float64], error) {
	fn, err := d.CompileCounting(opts...)
	if err != nil {
		return nil, err
	}
	return fn.ParseFunc(), nil
}

// CompileCounting is Compile with per-call token counts
func (d *Definition) CompileCounting(opts ...parser.Option) (parser.CountingParseFunc[float64], error) {
	tok, err := d.validate()
	if err != nil {
		return nil, err
	}

	all := append([]parser.Option{
		parser.WithStrict(d.Strict),
		parser.WithMaxInputLength(d.MaxInputLength),
	}, opts...)

	b := parser.NewBuilder[float64, lexer.Token](tok.Func(), all...)
	for _, op := range d.Operators {
		register(b, op)
	}

	return b.BuildCounting()
}

// Tokenizer returns the tokenizer of a valid definition
func (d *Definition) Tokenizer() (*lexer.Tokenizer, error) {
	return d.validate()
}

func register(b *parser.Builder[float64, lexer.Token], op OperatorDef) {
	switch op.Kind {
	case KindLiteral:
		b.RegisterPrefix(op.Token, parser.Value(literal))
	case KindGroup:
		b.RegisterPrefix(op.Token, parser.Grouping[float64, lexer.Token](op.Closing))
	case KindPrefix:
		fn := unaryOps[op.Op]
		b.Prefix(op.Token, op.Precedence, func(_ lexer.Token, right float64) float64 { return fn(right) })
	case KindPostfix:
		fn := unaryOps[op.Op]
		b.Postfix(op.Token, op.Precedence, func(left float64, _ lexer.Token) float64 { return fn(left) })
	case KindInfixLeft:
		fn := binaryOps[op.Op]
		b.InfixLeft(op.Token, op.Precedence, func(left float64, _ lexer.Token, right float64) float64 { return fn(left, right) })
	case KindInfixRight:
		fn := binaryOps[op.Op]
		b.InfixRight(op.Token, op.Precedence, func(left float64, _ lexer.Token, right float64) float64 { return fn(left, right) })
	}
}

func literal(tok lexer.Token) (float64, error) {
	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return 0, prerror.Wrap(err, fmt.Sprintf("token %s is not a number literal", tok)).
			WithCode(prerror.CodeInvalidInput).
			WithOperation("grammar.literal").
			WithDetail("value", tok.Value)
	}
	return v, nil
}

// Summary describes the definition in one line per operator, sorted by
// precedence from tightest to loosest.
func (d *Definition) Summary() []string {
	ops := append([]OperatorDef(nil), d.Operators...)
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Precedence > ops[j].Precedence
	})

	lines := make([]string, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case KindLiteral:
			lines = append(lines, fmt.Sprintf("%-8s literal", op.Token))
		case KindGroup:
			lines = append(lines, fmt.Sprintf("%-8s group until %s", op.Token, op.Closing))
		default:
			lines = append(lines, fmt.Sprintf("%-8s %-11s %2d  %s", op.Token, op.Kind, op.Precedence, op.Op))
		}
	}
	return lines
}
