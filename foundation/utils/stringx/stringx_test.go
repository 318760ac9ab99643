// File: stringx_test.go
// Title: Unit Tests for Core String Utilities
// Description: Table-driven tests for the stringx helpers, including
//              Unicode input.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial test implementation
// - 2026-10-16 v0.2.0: Tests for FirstNonBlank

package stringx

import (
	"testing"
)

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty string", "", true},
		{"single space", " ", true},
		{"multiple spaces", "   ", true},
		{"tab and spaces", " \t ", true},
		{"newline", "\n", true},
		{"mixed whitespace", " \t\n\r ", true},
		{"string with content", "hello", false},
		{"string with spaces around", " hello ", false},
		{"unicode content", "こんにちは", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsBlank(tt.input)
			if result != tt.expected {
				t.Errorf("IsBlank(%q) = %v; want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		ellipsis string
		expected string
	}{
		{"short string no truncation", "hello", 10, "...", "hello"},
		{"exact length no truncation", "hello", 5, "...", "hello"},
		{"basic truncation", "hello world", 8, "...", "hello..."},
		{"unicode truncation", "こんにちは世界", 4, "...", "こ..."},
		{"zero length", "hello", 0, "...", ""},
		{"negative length", "hello", -1, "...", ""},
		{"ellipsis longer than maxLen", "hello", 2, "...", "he"},
		{"empty ellipsis", "hello world", 5, "", "hello"},
		{"custom ellipsis", "hello world", 8, " more", "hel more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(tt.input, tt.maxLen, tt.ellipsis)
			if result != tt.expected {
				t.Errorf("Truncate(%q, %d, %q) = %q; want %q", tt.input, tt.maxLen, tt.ellipsis, result, tt.expected)
			}
		})
	}
}

func TestFirstNonBlank(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected string
	}{
		{"no values", nil, ""},
		{"all blank", []string{"", " ", "\t"}, ""},
		{"first wins", []string{"a", "b"}, "a"},
		{"skips blank", []string{" ", "calc", "b"}, "calc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstNonBlank(tt.values...); got != tt.expected {
				t.Errorf("FirstNonBlank(%q) = %q; want %q", tt.values, got, tt.expected)
			}
		})
	}
}
