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
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/AleutianAI/AleutianAccess/pkg/logging"
)

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes the accessibility analysis engine.
//
// Description:
//
//	Runs the engine once per invocation over the configured glob patterns
//	beneath a workspace root and returns the engine's native per-file
//	results. Results are not filtered: a clean file still yields an entry
//	with zero messages.
//
// Thread Safety: Safe for concurrent use.
type Runner struct {
	config EngineConfig
	logger *logging.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithEngineConfig sets a custom engine configuration.
func WithEngineConfig(config EngineConfig) Option {
	return func(r *Runner) {
		r.config = config.Clone()
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner with default or custom configuration.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		config: DefaultEngineConfig(),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns a copy of the runner's engine configuration.
func (r *Runner) Config() EngineConfig {
	return r.config.Clone()
}

// EngineAvailable reports whether the engine binary is in PATH.
func (r *Runner) EngineAvailable() bool {
	_, err := exec.LookPath(r.config.Command)
	return err == nil
}

// Run executes the engine over all matching files beneath root.
//
// Description:
//
//	Validates the root, materializes the transient engine configuration,
//	runs the engine once with both glob patterns, and parses its JSON
//	output. Engine exit status 1 with JSON on stdout means findings were
//	reported, not that the run failed.
//
//	Errors are propagated uncaught to the caller, which owns user-facing
//	reporting. There are no retries.
//
// Inputs:
//
//	ctx - Context for cancellation; the configured timeout is applied here
//	root - Workspace root directory; must exist and be readable
//
// Outputs:
//
//	[]FileResult - The engine's per-file results, unmodified
//	error - Non-nil if the engine failed to execute or produce output
//
// Errors:
//
//	ErrRootNotFound - root missing or not a directory
//	ErrEngineNotInstalled - engine binary not found in PATH
//	ErrEngineTimeout - engine exceeded the configured timeout
//	ErrEngineFailed - engine process failed with no output
//	ErrParseOutput - engine output was not valid JSON
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) Run(ctx context.Context, root string) ([]FileResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	ctx, span := startRunSpan(ctx, r.config.Command, root)
	defer span.End()
	start := time.Now()

	if _, err := exec.LookPath(r.config.Command); err != nil {
		recordRunMetrics(ctx, time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: %s", ErrEngineNotInstalled, r.config.Command)
	}

	configPath, cleanup, err := r.writeEngineRC()
	if err != nil {
		recordRunMetrics(ctx, time.Since(start), 0, false)
		return nil, err
	}
	defer cleanup()

	output, err := r.execute(ctx, root, configPath)
	if err != nil {
		recordRunMetrics(ctx, time.Since(start), 0, false)
		return nil, err
	}

	results, err := ParseResults(output)
	if err != nil {
		recordRunMetrics(ctx, time.Since(start), 0, false)
		return nil, err
	}

	findings := 0
	for _, res := range results {
		findings += len(res.Messages)
	}

	setRunSpanResult(span, len(results), findings)
	recordRunMetrics(ctx, time.Since(start), findings, true)

	r.logger.Debug("engine run complete",
		"root", root,
		"files", len(results),
		"findings", findings,
		"duration", time.Since(start),
	)

	return results, nil
}

// writeEngineRC writes the transient engine configuration file.
func (r *Runner) writeEngineRC() (string, func(), error) {
	data, err := r.config.MarshalEngineRC()
	if err != nil {
		return "", nil, err
	}

	tmp, err := os.CreateTemp("", "access-eslintrc-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("creating engine config: %w", err)
	}
	path := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("writing engine config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("closing engine config: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}

// execute runs the engine subprocess and returns its stdout.
func (r *Runner) execute(ctx context.Context, root, configPath string) ([]byte, error) {
	timeout := r.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, r.config.Command, r.config.Args(configPath)...)
	cmd.Dir = root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if cmdCtx.Err() == context.DeadlineExceeded {
		return nil, NewEngineError(r.config.Command, ErrEngineTimeout).
			WithOutput(stderr.String())
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// The engine exits non-zero when it finds issues. Only a run with no
	// stdout output is an actual failure.
	if err != nil && stdout.Len() == 0 {
		return nil, NewEngineError(r.config.Command, ErrEngineFailed).
			WithOutput(stderr.String())
	}

	return stdout.Bytes(), nil
}
