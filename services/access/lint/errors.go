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
	"errors"
	"fmt"
)

// Sentinel errors for the lint package.
var (
	// ErrInvalidInput indicates invalid input to a lint function.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRootNotFound indicates the workspace root does not exist or is not a directory.
	ErrRootNotFound = errors.New("workspace root not found")

	// ErrEngineNotInstalled indicates the engine binary was not found in PATH.
	ErrEngineNotInstalled = errors.New("analysis engine not installed")

	// ErrEngineTimeout indicates the engine exceeded its configured timeout.
	ErrEngineTimeout = errors.New("analysis engine timeout")

	// ErrEngineFailed indicates the engine process failed to execute.
	ErrEngineFailed = errors.New("analysis engine execution failed")

	// ErrParseOutput indicates failure to parse the engine's JSON output.
	ErrParseOutput = errors.New("failed to parse engine output")
)

// EngineError wraps errors from the analysis engine with context.
//
// Thread Safety: Immutable after creation.
type EngineError struct {
	// Command is the engine executable that failed (e.g., "eslint").
	Command string

	// Err is the underlying error.
	Err error

	// Output contains any stderr output from the engine.
	Output string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates an error with context about the failed engine run.
func NewEngineError(command string, err error) *EngineError {
	return &EngineError{
		Command: command,
		Err:     err,
	}
}

// WithOutput returns a copy of the error with stderr output attached.
func (e *EngineError) WithOutput(output string) *EngineError {
	return &EngineError{
		Command: e.Command,
		Err:     e.Err,
		Output:  output,
	}
}
