// File: validation.go
// Title: Configuration Validation Implementation
// Description: Implements validation for configuration values including
//              required keys, type checks, numeric bounds, patterns and
//              defaults for absent keys.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of validation
// - 2026-10-16 v0.2.0: Deterministic error order, Err() for structured errors,
//                      defaults applied without re-entering the read lock

package config

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	prerror "github.com/msto63/pratt/foundation/core/error"
)

// ValidationRule defines validation criteria for configuration values
type ValidationRule struct {
	Required bool        // Whether the key is required
	Type     string      // "string", "int", "bool", "float", "duration", "[]string"
	Min      *float64    // Minimum value (numbers) or length (strings)
	Max      *float64    // Maximum value (numbers) or length (strings)
	Default  interface{} // Value applied when the key is absent
	Pattern  string      // Regex pattern for string values
	OneOf    []string    // Allowed string values
}

// ValidationRules maps configuration keys to their validation rules
type ValidationRules map[string]ValidationRule

// ValidationResult contains the results of configuration validation
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Err returns nil for a valid result, otherwise a CodeValidationFailed
// error listing every violation.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	return prerror.New("configuration validation failed: " + strings.Join(r.Errors, "; ")).
		WithCode(prerror.CodeValidationFailed).
		WithOperation("config.Validate").
		WithDetail("violations", r.Errors)
}

// Bound is a helper for the Min and Max fields
func Bound(v float64) *float64 {
	return &v
}

// Validate validates the configuration against the provided rules.
// Defaults of absent, non-required keys are written into the configuration.
func (c *Config) Validate(rules ValidationRules) *ValidationResult {
	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &ValidationResult{Valid: true}

	for _, key := range keys {
		rule := rules[key]

		if !c.Has(key) {
			if rule.Required {
				result.add(fmt.Sprintf("required key '%s' is missing", key))
				continue
			}
			if rule.Default != nil {
				c.Set(key, rule.Default)
			}
			continue
		}

		if err := c.validateValue(key, rule); err != nil {
			result.add(err.Error())
		}
	}

	return result
}

func (r *ValidationResult) add(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// validateValue checks a present key against type, bounds, pattern and
// allowed values. Values are read through the typed getters so environment
// overrides are validated too.
func (c *Config) validateValue(key string, rule ValidationRule) error {
	var (
		number   float64
		isNumber bool
		text     string
		isText   bool
	)

	switch rule.Type {
	case "", "string":
		text, isText = c.GetString(key), true
	case "int":
		raw := c.GetString(key)
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("key '%s' must be an integer, got %q", key, raw)
		}
		number, isNumber = float64(n), true
	case "float":
		raw := c.GetString(key)
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("key '%s' must be a number, got %q", key, raw)
		}
		number, isNumber = f, true
	case "bool":
		raw := c.GetString(key)
		if _, err := strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("key '%s' must be a boolean, got %q", key, raw)
		}
	case "duration":
		raw := c.GetString(key)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("key '%s' must be a duration, got %q", key, raw)
		}
		number, isNumber = d.Seconds(), true
	case "[]string":
		if c.GetStringSlice(key) == nil {
			return fmt.Errorf("key '%s' must be a list of strings", key)
		}
	default:
		return fmt.Errorf("key '%s' has unknown rule type %q", key, rule.Type)
	}

	if isText {
		number = float64(len(text))
	}
	if isNumber || isText {
		if rule.Min != nil && number < *rule.Min {
			return fmt.Errorf("key '%s' must be at least %v", key, *rule.Min)
		}
		if rule.Max != nil && number > *rule.Max {
			return fmt.Errorf("key '%s' must be at most %v", key, *rule.Max)
		}
	}

	if isText && rule.Pattern != "" {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("key '%s' has invalid pattern %q: %v", key, rule.Pattern, err)
		}
		if !re.MatchString(text) {
			return fmt.Errorf("key '%s' does not match pattern %q", key, rule.Pattern)
		}
	}

	if isText && len(rule.OneOf) > 0 {
		for _, allowed := range rule.OneOf {
			if strings.EqualFold(allowed, text) {
				return nil
			}
		}
		return fmt.Errorf("key '%s' must be one of %s, got %q", key, strings.Join(rule.OneOf, ", "), text)
	}

	return nil
}
