// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the optional per-workspace tool configuration.
//
// A workspace may carry a .aleutian-access.yaml at its root overriding
// the engine command, glob patterns, ruleset, completion model, and
// limits. Everything has a default; a missing file is not an error, a
// present but malformed or out-of-range file is.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianAccess/services/access/fix"
	"github.com/AleutianAI/AleutianAccess/services/access/lint"
)

// FileName is the per-workspace configuration file name.
const FileName = ".aleutian-access.yaml"

// ErrInvalidConfig indicates a present but unusable configuration file.
var ErrInvalidConfig = errors.New("invalid configuration")

// validate is shared; validator instances cache struct metadata.
var validate = validator.New()

// =============================================================================
// TYPES
// =============================================================================

// Config is the full tool configuration.
//
// Thread Safety: Treat as immutable after Load.
type Config struct {
	// Engine configures the analysis engine invocation.
	Engine Engine `yaml:"engine"`

	// Model configures the completion service.
	Model Model `yaml:"model"`
}

// Engine configures the analysis engine.
type Engine struct {
	// Command is the engine binary name or path.
	Command string `yaml:"command" validate:"required"`

	// Ruleset is the rule-set extension identifier.
	Ruleset string `yaml:"ruleset" validate:"required"`

	// Patterns are the glob patterns the engine expands.
	Patterns []string `yaml:"patterns" validate:"min=1,dive,required"`

	// TimeoutSeconds bounds a single engine run.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gt=0"`
}

// Model configures the completion service.
type Model struct {
	// Name is the completion model identifier.
	Name string `yaml:"name" validate:"required"`

	// MaxTokens caps the completion length.
	MaxTokens int `yaml:"max_tokens" validate:"gt=0"`

	// Temperature is the sampling temperature.
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() Config {
	engine := lint.DefaultEngineConfig()
	return Config{
		Engine: Engine{
			Command:        engine.Command,
			Ruleset:        engine.Ruleset,
			Patterns:       engine.Patterns,
			TimeoutSeconds: int(engine.Timeout / time.Second),
		},
		Model: Model{
			Name:        fix.DefaultModel,
			MaxTokens:   fix.DefaultMaxTokens,
			Temperature: fix.DefaultTemperature,
		},
	}
}

// Load reads the workspace configuration.
//
// Description:
//
//	Reads <root>/.aleutian-access.yaml when present and overlays it on
//	the defaults. Absent file returns the defaults unchanged. A file
//	that does not parse or fails validation returns ErrInvalidConfig;
//	callers report it and refuse to start rather than guessing.
//
// Inputs:
//
//	root - The workspace root directory
//
// Outputs:
//
//	Config - The effective configuration
//	error - nil, or a wrapped ErrInvalidConfig
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and required fields.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// EngineConfig bridges to the lint package's engine configuration.
func (c Config) EngineConfig() lint.EngineConfig {
	engine := lint.DefaultEngineConfig()
	engine.Command = c.Engine.Command
	engine.Ruleset = c.Engine.Ruleset
	engine.Patterns = append([]string(nil), c.Engine.Patterns...)
	engine.Timeout = time.Duration(c.Engine.TimeoutSeconds) * time.Second
	return engine
}
