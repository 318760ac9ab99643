// File: discovery.go
// Title: Configuration File Discovery Implementation
// Description: Implements configuration file discovery across multiple
//              paths and formats.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of file discovery
// - 2026-10-16 v0.2.0: Discover falls back to defaults-only configuration

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	prerror "github.com/msto63/pratt/foundation/core/error"
)

// DiscoveryOptions defines options for automatic configuration file discovery
type DiscoveryOptions struct {
	Paths      []string // Directories to search for config files
	Filenames  []string // Base filenames to look for (without extension)
	Extensions []string // File extensions to try (.toml, .yaml, .yml)
	Required   bool     // Whether finding a config file is required
	Load       LoadOptions
}

// CandidateFiles returns every path discovery would try, in order
func (o DiscoveryOptions) CandidateFiles() []string {
	paths := make([]string, 0, len(o.Paths)*len(o.Filenames)*len(o.Extensions))
	for _, dir := range o.Paths {
		for _, filename := range o.Filenames {
			for _, ext := range o.Extensions {
				paths = append(paths, filepath.Join(dir, filename+ext))
			}
		}
	}
	return paths
}

func (o DiscoveryOptions) withDefaults() DiscoveryOptions {
	if len(o.Paths) == 0 {
		o.Paths = []string{"."}
	}
	if len(o.Filenames) == 0 {
		o.Filenames = []string{"config"}
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".toml", ".yaml", ".yml"}
	}
	return o
}

// FindConfigFile searches for a configuration file without loading it
func FindConfigFile(options DiscoveryOptions) (string, error) {
	options = options.withDefaults()

	candidates := options.CandidateFiles()
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", prerror.New(fmt.Sprintf("no configuration file found in: %s", strings.Join(candidates, ", "))).
		WithCode(prerror.CodeNotFound).
		WithOperation("config.FindConfigFile").
		WithDetail("searchPaths", candidates)
}

// Discover finds and loads the first matching configuration file. When
// none exists and the file is not required, a configuration holding only
// the defaults and environment overrides is returned.
func Discover(options DiscoveryOptions) (*Config, error) {
	options = options.withDefaults()

	path, err := FindConfigFile(options)
	if err != nil {
		if options.Required {
			return nil, err
		}
		return New(options.Load.EnvPrefix, options.Load.Defaults), nil
	}

	config, err := LoadWithOptions(path, options.Load)
	if err != nil {
		return nil, prerror.Wrap(err, fmt.Sprintf("found config file %s but failed to load", path)).
			WithCode(prerror.CodeInvalidConfig).
			WithOperation("config.Discover").
			WithDetail("configPath", path)
	}
	return config, nil
}
