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
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/AleutianAccess/services/access/diagnostic"
	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// CommandApplyFix is the deferred command identifier an action carries.
// The host echoes it back through workspace/executeCommand when the
// user picks the action.
const CommandApplyFix = "aleutianAccess.applyFix"

// CommandRunChecks triggers a full workspace analysis run.
const CommandRunChecks = "aleutianAccess.runChecks"

// Args is the by-value payload captured into a deferred fix command.
//
// Description:
//
//	Everything the pipeline needs is snapshotted here at binding time.
//	Later analysis runs that reorder or remove findings cannot corrupt
//	a pending action because nothing is referenced by index or by
//	store lookup.
//
// Thread Safety: Immutable after creation.
type Args struct {
	// Path is the absolute path of the target document.
	Path string `json:"path"`

	// Range is the finding's stored range at binding time.
	Range lsp.Range `json:"range"`

	// Message is the finding's human-readable description.
	Message string `json:"message"`

	// RuleID is the rule that produced the finding.
	RuleID string `json:"ruleId,omitempty"`
}

// BindActions produces quick-fix actions for the findings overlapping a
// requested range.
//
// Description:
//
//	Exactly one action per overlapping diagnostic whose source matches
//	this tool's tag. Diagnostics from other tools at the same position
//	produce nothing. The binder performs no network or text mutation;
//	it only constructs command bindings.
//
// Inputs:
//
//	path - Absolute path of the document
//	requested - The range the host asked actions for
//	diags - Candidate diagnostics (host-provided context or store set)
//
// Outputs:
//
//	[]lsp.CodeAction - Zero or more quick-fix actions
func BindActions(path string, requested lsp.Range, diags []lsp.Diagnostic) []lsp.CodeAction {
	var actions []lsp.CodeAction

	for _, d := range diags {
		if d.Source != diagnostic.Source {
			continue
		}
		if !d.Range.Overlaps(requested) {
			continue
		}

		payload, err := json.Marshal(Args{
			Path:    path,
			Range:   d.Range,
			Message: d.Message,
			RuleID:  d.Code,
		})
		if err != nil {
			continue
		}

		actions = append(actions, lsp.CodeAction{
			Title:       fmt.Sprintf("Fix accessibility: %s", d.Message),
			Kind:        lsp.CodeActionKindQuickFix,
			Diagnostics: []lsp.Diagnostic{d},
			IsPreferred: true,
			Command: &lsp.Command{
				Title:     "Apply accessibility fix",
				Command:   CommandApplyFix,
				Arguments: []json.RawMessage{payload},
			},
		})
	}

	return actions
}

// DecodeArgs unpacks the payload of an executed fix command.
//
// Outputs:
//
//	Args - The decoded payload
//	error - ErrInvalidArguments when the payload is absent or malformed
func DecodeArgs(arguments []json.RawMessage) (Args, error) {
	if len(arguments) == 0 {
		return Args{}, fmt.Errorf("%w: no arguments", ErrInvalidArguments)
	}

	var args Args
	if err := json.Unmarshal(arguments[0], &args); err != nil {
		return Args{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if args.Path == "" {
		return Args{}, fmt.Errorf("%w: missing path", ErrInvalidArguments)
	}
	return args, nil
}
