// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, 0.8, cfg.Generation.TopP)
	assert.Equal(t, 20, cfg.Generation.TopK)
	assert.Equal(t, 1.0, cfg.Generation.PresencePenalty)
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
[backend]
url = "http://example.test:9999"
timeout_secs = 5

[generation]
temperature = 0.3
max_tokens = 256

[ui]
theme = "light"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test:9999", cfg.Backend.URL)
	assert.Equal(t, 5, cfg.Backend.TimeoutSecs)
	assert.Equal(t, 0.3, cfg.Generation.Temperature)
	assert.Equal(t, 256, cfg.Generation.MaxTokens)
	assert.Equal(t, "light", cfg.UI.Theme)

	// Unset fields keep their defaults.
	assert.Equal(t, 0.8, cfg.Generation.TopP)
}

func TestLoadFromPathInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[[[not toml")

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NOESIS_SERVER_URL", "http://env.test:1234")
	t.Setenv("NOESIS_TEMPERATURE", "0.9")
	t.Setenv("NOESIS_MAX_TOKENS", "not a number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://env.test:1234", cfg.Backend.URL)
	assert.Equal(t, 0.9, cfg.Generation.Temperature)
	assert.Equal(t, 4096, cfg.Generation.MaxTokens, "unparseable override ignored")
}

func TestValidateClampsSampling(t *testing.T) {
	cfg := Default()
	cfg.Generation.Temperature = 5.0
	cfg.Generation.TopP = -0.2
	cfg.Generation.MinP = 1.5
	cfg.Generation.TopK = -3
	cfg.Generation.MaxTokens = 0

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2.0, cfg.Generation.Temperature)
	assert.Equal(t, 0.0, cfg.Generation.TopP)
	assert.Equal(t, 1.0, cfg.Generation.MinP)
	assert.Equal(t, 0, cfg.Generation.TopK)
	assert.Equal(t, 4096, cfg.Generation.MaxTokens)
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url scheme", func(c *Config) { c.Backend.URL = "ftp://nope" }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSamplingConversion(t *testing.T) {
	cfg := Default()
	s := cfg.Sampling()

	assert.Equal(t, cfg.Generation.Temperature, s.Temperature)
	assert.Equal(t, cfg.Generation.MaxTokens, s.MaxTokens)
	assert.Equal(t, cfg.Generation.TopP, s.TopP)
	assert.Equal(t, cfg.Generation.TopK, s.TopK)
	assert.Equal(t, cfg.Generation.PresencePenalty, s.PresencePenalty)
}
