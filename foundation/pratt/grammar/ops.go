// File: ops.go
// Title: Named Operator Table
// Description: The float64 functions grammar files refer to by name.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package grammar

import (
	"math"
	"sort"
)

var unaryOps = map[string]func(float64) float64{
	"neg":    func(x float64) float64 { return -x },
	"negate": func(x float64) float64 { return -x },
	"pos":    func(x float64) float64 { return x },
	"abs":    math.Abs,
	"sqrt":   math.Sqrt,
	"fact":   factorial,
}

var binaryOps = map[string]func(float64, float64) float64{
	"add": func(a, b float64) float64 { return a + b },
	"sub": func(a, b float64) float64 { return a - b },
	"mul": func(a, b float64) float64 { return a * b },
	"div": func(a, b float64) float64 { return a / b },
	"mod": math.Mod,
	"pow": math.Pow,
	"min": math.Min,
	"max": math.Max,
}

// factorial is exact for small non-negative integers, extends to other
// values through the gamma function and is NaN for negative integers.
func factorial(x float64) float64 {
	if x != math.Trunc(x) || x > 170 {
		return math.Gamma(x + 1)
	}
	if x < 0 {
		return math.NaN()
	}
	result := 1.0
	for i := 2.0; i <= x; i++ {
		result *= i
	}
	return result
}

// UnaryOps returns the sorted names usable with prefix and postfix operators
func UnaryOps() []string {
	return sortedNames(unaryOps)
}

// BinaryOps returns the sorted names usable with infix operators
func BinaryOps() []string {
	return sortedNames(binaryOps)
}

func sortedNames[F any](m map[string]F) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
