// Package calc is an arithmetic calculator built on the pratt parser.
//
// Operators from loosest to tightest binding:
//
//	+ -      AddSub, left associative
//	* /      MulDiv, left associative
//	^        Exp, right associative
//	-x  x!   Negate, prefix minus and postfix negation
//
// Parentheses group. Numbers are decimal literals such as 3 or 2.5.
//
//	v, err := calc.Evaluate("3 / 3 + 4 * (3 ^ (2 - 1))") // 13
package calc
