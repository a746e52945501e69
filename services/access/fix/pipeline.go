// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fix

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianAccess/pkg/logging"
	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// =============================================================================
// HOST INTERFACE
// =============================================================================

// Host is the editor-side surface the pipeline needs.
//
// The server package implements it on top of the LSP connection and its
// document overlay; tests implement it in memory.
type Host interface {
	// ReadRange returns the text currently at the range in the
	// document's present state, not the state the finding was computed
	// against. A stale range yields whatever is there now.
	ReadRange(path string, rng lsp.Range) (string, error)

	// ApplyEdit replaces the range with newText as one atomic edit.
	// A rejection by the editor returns a non-nil error.
	ApplyEdit(ctx context.Context, label, path string, rng lsp.Range, newText string) error

	// ShowMessage surfaces a message to the user.
	ShowMessage(messageType lsp.MessageType, message string)
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline turns one finding into one applied edit.
//
// Description:
//
//	Runs the fix sequence: credential check, snippet extraction, prompt
//	construction, one completion call, reply parsing, one atomic edit.
//	Every failure is terminal for the invocation and produces exactly
//	one user-visible message; a fresh user action is the only retry.
//
// Thread Safety: Safe for concurrent use; each Run is independent.
type Pipeline struct {
	completer Completer
	host      Host
	logger    *logging.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *logging.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a fix pipeline.
//
// Inputs:
//
//	completer - The completion client; nil when no credential is
//	            configured, which makes every invocation abort at the
//	            precondition check without network activity
//	host - The editor-side surface
func NewPipeline(completer Completer, host Host, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		completer: completer,
		host:      host,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one fix invocation for the given finding.
//
// Outputs:
//
//	error - The terminal failure, nil when the fix was applied. The
//	        user-visible outcome has already been delivered either way.
func (p *Pipeline) Run(ctx context.Context, args Args) error {
	if ctx == nil {
		return fmt.Errorf("ctx must not be nil")
	}

	invocationID := uuid.NewString()
	log := p.logger.With("invocation_id", invocationID, "path", args.Path, "rule", args.RuleID)

	ctx, span := startFixSpan(ctx, args.RuleID)
	defer span.End()
	start := time.Now()

	outcome, err := p.run(ctx, log, args)
	recordFixMetrics(ctx, time.Since(start), outcome)

	if err != nil {
		log.Warn("fix invocation ended without an applied edit",
			"outcome", outcome, "error", err)
	} else {
		log.Info("fix applied", "duration_ms", time.Since(start).Milliseconds())
	}
	return err
}

// run walks the state sequence and returns the outcome label for
// metrics alongside the terminal error.
func (p *Pipeline) run(ctx context.Context, log *logging.Logger, args Args) (string, error) {
	// Precondition: credential. Abort before any side effect.
	if p.completer == nil {
		p.host.ShowMessage(lsp.MessageError,
			"Accessibility fix unavailable: no completion service credential configured. Set OPENAI_API_KEY and restart.")
		return "no_credential", ErrNoCredential
	}

	// Extraction from the document's current state.
	snippet, err := p.host.ReadRange(args.Path, args.Range)
	if err != nil {
		p.host.ShowMessage(lsp.MessageError,
			fmt.Sprintf("Accessibility fix failed: could not read the code at the finding (%v).", err))
		return "snippet_unavailable", fmt.Errorf("%w: %v", ErrSnippetUnavailable, err)
	}

	// Single completion call. No retry on failure.
	log.Debug("requesting completion", "snippet_bytes", len(snippet))
	reply, err := p.completer.Complete(ctx, systemPrompt, BuildUserPrompt(snippet, args.Message, args.RuleID))
	if err != nil {
		p.host.ShowMessage(lsp.MessageError,
			fmt.Sprintf("Accessibility fix failed: %v.", err))
		return "completion_failed", err
	}

	// Parse. No fenced block means no fix, not an error to retry.
	result := ParseCompletion(reply)
	if !result.HasFix() {
		p.host.ShowMessage(lsp.MessageWarning,
			fmt.Sprintf("No fix available for: %s", args.Message))
		return "no_fix", ErrNoFixAvailable
	}

	// One atomic replacement of the stored range.
	if err := p.host.ApplyEdit(ctx, "Accessibility fix", args.Path, args.Range, result.FixedCode); err != nil {
		p.host.ShowMessage(lsp.MessageError,
			fmt.Sprintf("Accessibility fix could not be applied: %v.", err))
		return "edit_rejected", fmt.Errorf("%w: %v", ErrEditRejected, err)
	}

	message := "Accessibility fix applied."
	if result.Explanation != "" {
		message = fmt.Sprintf("Accessibility fix applied: %s", result.Explanation)
	}
	p.host.ShowMessage(lsp.MessageInfo, message)
	return "applied", nil
}
