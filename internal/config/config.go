// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for noesis.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/noesislabs/noesis-tui/internal/noesis"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete noesis configuration.
type Config struct {
	// Backend connection settings
	Backend BackendConfig `toml:"backend"`

	// Generation sampling parameters sent with every request
	Generation GenerationConfig `toml:"generation"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains the backend connection configuration.
type BackendConfig struct {
	// URL is the backend base URL
	URL string `toml:"url"`
	// TimeoutSecs is the timeout for non-streaming requests, in seconds
	TimeoutSecs int `toml:"timeout_secs"`
}

// GenerationConfig contains the sampling parameters for generation requests.
type GenerationConfig struct {
	// Temperature controls randomness (0.0-2.0)
	Temperature float64 `toml:"temperature"`
	// MaxTokens caps the reply length
	MaxTokens int `toml:"max_tokens"`
	// MinP is the minimum-probability cutoff (0.0-1.0)
	MinP float64 `toml:"min_p"`
	// TopP is the nucleus-sampling cutoff (0.0-1.0)
	TopP float64 `toml:"top_p"`
	// TopK limits sampling to the K most likely tokens (0 = disabled)
	TopK int `toml:"top_k"`
	// PresencePenalty discourages repeating tokens already present
	PresencePenalty float64 `toml:"presence_penalty"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light"
	Theme string `toml:"theme"`
	// ShowStats displays per-reply generation statistics
	ShowStats bool `toml:"show_stats"`
	// SidebarVisible shows the conversation sidebar on startup
	SidebarVisible bool `toml:"sidebar_visible"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration. The sampling values match the
// backend's own defaults.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://127.0.0.1:8000",
			TimeoutSecs: 30,
		},
		Generation: GenerationConfig{
			Temperature:     0.7,
			MaxTokens:       4096,
			MinP:            0.0,
			TopP:            0.8,
			TopK:            20,
			PresencePenalty: 1.0,
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowStats:      true,
			SidebarVisible: true,
		},
	}
}

// Sampling converts the generation settings to the wire representation.
func (c *Config) Sampling() noesis.Sampling {
	return noesis.Sampling{
		Temperature:     c.Generation.Temperature,
		MaxTokens:       c.Generation.MaxTokens,
		MinP:            c.Generation.MinP,
		TopP:            c.Generation.TopP,
		TopK:            c.Generation.TopK,
		PresencePenalty: c.Generation.PresencePenalty,
	}
}

// Timeout returns the backend request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the noesis configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".noesis"), nil
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

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.noesis/config.toml, falling back to
// built-in defaults when the file is absent. Environment overrides are
// applied last, then the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path. A missing file
// is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies NOESIS_* environment variables on top of the
// loaded configuration. Unparseable values are ignored.
func (c *Config) ApplyEnvOverrides() {
	// NOESIS_SERVER_URL
	if url := os.Getenv("NOESIS_SERVER_URL"); url != "" {
		c.Backend.URL = url
	}

	// NOESIS_TIMEOUT_SECS
	if v := os.Getenv("NOESIS_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = secs
		}
	}

	// NOESIS_TEMPERATURE
	if v := os.Getenv("NOESIS_TEMPERATURE"); v != "" {
		if temp, err := strconv.ParseFloat(v, 64); err == nil {
			c.Generation.Temperature = temp
		}
	}

	// NOESIS_MAX_TOKENS
	if v := os.Getenv("NOESIS_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Generation.MaxTokens = n
		}
	}

	// NOESIS_THEME
	if theme := os.Getenv("NOESIS_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field constraints and clamps the sampling parameters into
// their valid ranges. Hard errors (unusable backend URL, nonsense theme) are
// reported; out-of-range sampling values are clamped rather than rejected.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL '%s', must start with http:// or https://", c.Backend.URL),
		})
	}
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 30
	}

	c.Generation.Temperature = clampFloat(c.Generation.Temperature, 0.0, 2.0)
	c.Generation.MinP = clampFloat(c.Generation.MinP, 0.0, 1.0)
	c.Generation.TopP = clampFloat(c.Generation.TopP, 0.0, 1.0)
	if c.Generation.TopK < 0 {
		c.Generation.TopK = 0
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = 4096
	}
	if c.Generation.PresencePenalty < 0 {
		c.Generation.PresencePenalty = 0
	}

	validThemes := map[string]bool{"dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
