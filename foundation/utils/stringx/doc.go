// File: doc.go
// Title: Package Documentation for stringx
// Description: Package stringx provides small Unicode-safe string helpers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-16 v0.2.0: Reduced to the helpers the toolkit uses

// Package stringx provides small Unicode-safe string helpers that the
// standard strings package lacks.
//
// Lengths are counted in runes, never bytes, so multi-byte input is never
// split in the middle of a character:
//
//	stringx.Truncate("こんにちは世界", 4, "...") // "こ..."
//	stringx.IsBlank(" \t\n")                 // true
package stringx
