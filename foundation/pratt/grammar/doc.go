// Package grammar compiles declarative operator tables into parsers.
//
// A grammar file lists ordered lexical rules and the role of each token.
// TOML and YAML are accepted; the format follows the file extension.
//
//	name = "tiny"
//
//	[[rules]]
//	id = "NUMBER"
//	pattern = '\d+'
//	regex = true
//
//	[[rules]]
//	pattern = "+"
//
//	[[operators]]
//	token = "NUMBER"
//	kind = "literal"
//
//	[[operators]]
//	token = "+"
//	kind = "infix-left"
//	precedence = 1
//	op = "add"
//
// Kinds are literal, group (with closing), prefix, postfix, infix-left
// and infix-right. Operators name their function: add, sub, mul, div,
// mod, pow, min and max for infix kinds; neg, negate, pos, abs, sqrt and
// fact for prefix and postfix kinds. Rule order is the tokenizer's only
// tie-break, exactly as in the lexer package.
package grammar
