// Package config provides configuration management for the pratt toolkit.
//
// Package: config
// Title: Configuration Management
// Description: Loads TOML and YAML configuration files, offers dot-notation
//              getters with environment overrides, validation rules, file
//              discovery and fsnotify based hot reloading. Grammar definition
//              files use Decode and FileWatcher directly.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-16 v0.2.0: fsnotify watcher, typed decoding, discovery fallback
//
// Usage:
//
//	import prconfig "github.com/msto63/pratt/foundation/core/config"
//
//	cfg, err := prconfig.LoadWithOptions("pratt.toml", prconfig.LoadOptions{
//		EnvPrefix: "PRATT",
//		Defaults:  map[string]interface{}{"log": map[string]interface{}{"level": "info"}},
//	})
//	if err != nil {
//		return err
//	}
//
//	level := cfg.GetString("log.level") // PRATT_LOG_LEVEL overrides the file
//
// Environment keys are derived from the dotted key: "history.path" with
// prefix "PRATT" is read from PRATT_HISTORY_PATH.
package config
