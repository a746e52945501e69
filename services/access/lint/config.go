// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// ENGINE CONFIG
// =============================================================================

// EngineConfig configures how the analysis engine is invoked.
//
// Thread Safety: Treat as immutable after creation.
type EngineConfig struct {
	// Command is the engine executable name.
	Command string

	// Ruleset is the rule-set extension identifier the engine loads.
	Ruleset string

	// Patterns are the glob patterns selecting files beneath the root.
	// The engine expands these itself; they are passed as arguments.
	Patterns []string

	// EcmaVersion is the ECMAScript version for the engine's parser.
	EcmaVersion int

	// SourceType is the module source type ("module" or "script").
	SourceType string

	// Envs are the global environments enabled for analysis.
	Envs []string

	// Timeout is the maximum time to wait for the engine.
	Timeout time.Duration
}

// DefaultEngineConfig returns the configuration for ESLint with the
// jsx-a11y recommended ruleset over JSX and TSX sources.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Command:     "eslint",
		Ruleset:     "plugin:jsx-a11y/recommended",
		Patterns:    []string{"**/*.jsx", "**/*.tsx"},
		EcmaVersion: 2020,
		SourceType:  "module",
		Envs:        []string{"browser", "node", "es2020"},
		Timeout:     30 * time.Second,
	}
}

// Clone returns a deep copy of the config.
func (c EngineConfig) Clone() EngineConfig {
	clone := c
	clone.Patterns = make([]string, len(c.Patterns))
	copy(clone.Patterns, c.Patterns)
	clone.Envs = make([]string, len(c.Envs))
	copy(clone.Envs, c.Envs)
	return clone
}

// MarshalEngineRC renders the transient engine configuration file.
//
// Description:
//
//	The engine is run with --no-eslintrc so project-local configuration
//	cannot interfere with the accessibility ruleset; this JSON document is
//	written to a temp file and passed via --config instead.
//
// Outputs:
//
//	[]byte - The JSON configuration document
//	error - Non-nil if marshaling fails
func (c EngineConfig) MarshalEngineRC() ([]byte, error) {
	env := make(map[string]bool, len(c.Envs))
	for _, e := range c.Envs {
		env[e] = true
	}

	rc := map[string]any{
		"extends": []string{c.Ruleset},
		"parserOptions": map[string]any{
			"ecmaVersion": c.EcmaVersion,
			"sourceType":  c.SourceType,
			"ecmaFeatures": map[string]bool{
				"jsx": true,
			},
		},
		"env": env,
	}

	data, err := json.Marshal(rc)
	if err != nil {
		return nil, fmt.Errorf("marshaling engine config: %w", err)
	}
	return data, nil
}

// Args builds the engine argument list for a run.
//
// Description:
//
//	The argument order is: fixed flags, the transient config path, then
//	the glob patterns. --no-error-on-unmatched-pattern keeps a tree with
//	no JSX/TSX files from being an engine failure.
//
// Inputs:
//
//	configPath - Path to the transient configuration file
//
// Outputs:
//
//	[]string - Arguments to pass to the engine
func (c EngineConfig) Args(configPath string) []string {
	args := []string{
		"--format", "json",
		"--no-eslintrc",
		"--config", configPath,
		"--no-error-on-unmatched-pattern",
	}
	args = append(args, c.Patterns...)
	return args
}
