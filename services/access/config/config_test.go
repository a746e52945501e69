// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return root
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "eslint", cfg.Engine.Command)
	assert.Equal(t, "plugin:jsx-a11y/recommended", cfg.Engine.Ruleset)
	assert.Equal(t, []string{"**/*.jsx", "**/*.tsx"}, cfg.Engine.Patterns)
	assert.Equal(t, 30, cfg.Engine.TimeoutSeconds)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, 512, cfg.Model.MaxTokens)
	assert.InDelta(t, 0.2, cfg.Model.Temperature, 0.001)
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default().Engine, cfg.Engine)
	})

	t.Run("overrides overlay on defaults", func(t *testing.T) {
		root := writeConfig(t, `
engine:
  command: eslint_d
  ruleset: plugin:jsx-a11y/strict
  patterns: ["src/**/*.tsx"]
  timeout_seconds: 60
model:
  name: gpt-4o
  max_tokens: 256
  temperature: 0.5
`)
		cfg, err := Load(root)
		require.NoError(t, err)

		assert.Equal(t, "eslint_d", cfg.Engine.Command)
		assert.Equal(t, "plugin:jsx-a11y/strict", cfg.Engine.Ruleset)
		assert.Equal(t, []string{"src/**/*.tsx"}, cfg.Engine.Patterns)
		assert.Equal(t, "gpt-4o", cfg.Model.Name)
		assert.Equal(t, 256, cfg.Model.MaxTokens)
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		root := writeConfig(t, "model:\n  name: gpt-4o\n")
		cfg, err := Load(root)
		require.NoError(t, err)

		assert.Equal(t, "gpt-4o", cfg.Model.Name)
		assert.Equal(t, 512, cfg.Model.MaxTokens)
		assert.Equal(t, "eslint", cfg.Engine.Command)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		root := writeConfig(t, "engine: [not: a: mapping")
		_, err := Load(root)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("temperature out of range", func(t *testing.T) {
		root := writeConfig(t, `
model:
  name: gpt-4o
  max_tokens: 512
  temperature: 3.5
`)
		_, err := Load(root)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("zero max tokens rejected", func(t *testing.T) {
		root := writeConfig(t, `
model:
  name: gpt-4o
  max_tokens: 0
  temperature: 0.2
`)
		_, err := Load(root)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("empty patterns rejected", func(t *testing.T) {
		root := writeConfig(t, "engine:\n  command: eslint\n  ruleset: r\n  patterns: []\n  timeout_seconds: 30\n")
		_, err := Load(root)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestEngineConfigBridge(t *testing.T) {
	cfg := Default()
	cfg.Engine.Command = "eslint_d"
	cfg.Engine.TimeoutSeconds = 45

	engine := cfg.EngineConfig()
	assert.Equal(t, "eslint_d", engine.Command)
	assert.Equal(t, 45*time.Second, engine.Timeout)
	assert.Equal(t, cfg.Engine.Patterns, engine.Patterns)
}
