// File: stringx.go
// Title: Core String Utilities
// Description: Unicode-safe string helpers shared by the configuration layer
//              and the tokenizer's error reporting.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-16 v0.2.0: Reduced to the helpers the toolkit uses

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank reports whether s is empty or contains only whitespace
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Truncate shortens s to at most maxLen runes, ellipsis included. When the
// ellipsis does not fit, s is cut to maxLen runes without one.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string(runes[:maxLen])
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(string(runes[:maxLen-ellipsisLen]))
	b.WriteString(ellipsis)
	return b.String()
}

// FirstNonBlank returns the first value that is not blank, or "" if all are
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if !IsBlank(v) {
			return v
		}
	}
	return ""
}
