// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error classification
//              across the pratt toolkit. Codes distinguish tokenization failures,
//              the parse error taxonomy and the surrounding configuration and
//              storage failures.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-16 v0.2.0: Replaced TCOL codes with tokenizer and parser codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Tokenizer
	CodeTokenization   Code = "TOKENIZATION"
	CodeInvalidGrammar Code = "INVALID_GRAMMAR"

	// Parser engine
	CodeUnexpectedEOF   Code = "UNEXPECTED_EOF"
	CodeNoPrefixHandler Code = "NO_PREFIX_HANDLER"
	CodeExpectedToken   Code = "EXPECTED_TOKEN"
	CodeTrailingInput   Code = "TRAILING_INPUT"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeRequiredField    Code = "REQUIRED_FIELD"
	CodeValueOutOfRange  Code = "VALUE_OUT_OF_RANGE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeTokenization, CodeInvalidGrammar,
		CodeUnexpectedEOF, CodeNoPrefixHandler, CodeExpectedToken, CodeTrailingInput,
		CodeDatabaseError,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeValidationFailed, CodeRequiredField, CodeValueOutOfRange:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeTokenization, CodeInvalidGrammar:
		return "lexical"
	case CodeUnexpectedEOF, CodeNoPrefixHandler, CodeExpectedToken, CodeTrailingInput:
		return "syntax"
	case CodeDatabaseError:
		return "database"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeRequiredField, CodeValueOutOfRange:
		return "validation"
	default:
		return "generic"
	}
}

// IsSyntax reports whether the code belongs to the input error taxonomy,
// i.e. the input text itself was rejected by the tokenizer or the parser.
func (c Code) IsSyntax() bool {
	switch c.Category() {
	case "lexical", "syntax":
		return c != CodeInvalidGrammar
	}
	return false
}
