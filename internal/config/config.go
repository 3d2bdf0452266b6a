// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigsh/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config holds the shell's settings.
type Config struct {
	// Prompt is the text printed before each input line.
	Prompt string `toml:"prompt"`

	// HistoryFile is the path of the line-editor history file. Empty means
	// <config dir>/history.
	HistoryFile string `toml:"history_file"`

	// HistoryDB is the path of the command history database. Empty means
	// <config dir>/history.db.
	HistoryDB string `toml:"history_db"`

	// Color enables styled output. Disabled automatically when stdout is
	// not a terminal.
	Color bool `toml:"color"`

	// MaxCompletions caps the number of options printed for a single `?`
	// query. Zero means unlimited.
	MaxCompletions int `toml:"max_completions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Prompt:         "rig> ",
		Color:          true,
		MaxCompletions: 50,
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the directory holding the shell's files, ~/.rigsh.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigsh"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// historyPath resolves an override against the config directory default.
func historyPath(override, name string) (string, error) {
	if override != "" {
		return override, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// HistoryFilePath returns the effective line-editor history path.
func (c *Config) HistoryFilePath() (string, error) {
	return historyPath(c.HistoryFile, "history")
}

// HistoryDBPath returns the effective history database path.
func (c *Config) HistoryDBPath() (string, error) {
	return historyPath(c.HistoryDB, "history.db")
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads the configuration: built-in defaults, overridden by the config
// file when present, overridden by environment variables. A missing file is
// not an error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads the configuration from an explicit file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config path.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to an explicit file.
func SaveTo(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# rigsh configuration file\n")
	b.WriteString("# Generated by rigsh - edit with care\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - RIGSH_PROMPT: overrides prompt
//   - RIGSH_HISTORY_FILE: overrides history_file
//   - RIGSH_HISTORY_DB: overrides history_db
//   - RIGSH_NO_COLOR: set to "1" or "true" to disable color
func (c *Config) ApplyEnvOverrides() {
	if prompt := os.Getenv("RIGSH_PROMPT"); prompt != "" {
		c.Prompt = prompt
	}
	if path := os.Getenv("RIGSH_HISTORY_FILE"); path != "" {
		c.HistoryFile = path
	}
	if path := os.Getenv("RIGSH_HISTORY_DB"); path != "" {
		c.HistoryDB = path
	}
	if v := os.Getenv("RIGSH_NO_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Color = false
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports one bad configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Prompt == "" {
		return ValidationError{Field: "prompt", Message: "must not be empty"}
	}
	if c.MaxCompletions < 0 {
		return ValidationError{Field: "max_completions", Message: "must not be negative"}
	}
	return nil
}
