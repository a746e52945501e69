// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package diagnostic

import (
	"github.com/AleutianAI/AleutianAccess/services/access/lint"
	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// Source tags every diagnostic this tool produces. Action binding and
// the fix pipeline use it to recognize their own findings among those
// of other tools active in the same session.
const Source = "aleutian-access"

// FallbackCode is used when the engine reports a finding without a rule
// identifier (for example a parse error in the target file).
const FallbackCode = "accessibility"

// MapResults converts engine file results into host diagnostics.
//
// Description:
//
//	Produces a map keyed by absolute file path. Files with zero
//	messages are omitted entirely so a clean file never appears in the
//	output; clearing previously published diagnostics for such files is
//	the store's job, not the mapper's.
//
// Inputs:
//
//	results - Engine results as parsed from its JSON output
//
// Outputs:
//
//	map[string][]lsp.Diagnostic - Diagnostics grouped by file path
//
// Thread Safety: Pure function, safe for concurrent use.
func MapResults(results []lint.FileResult) map[string][]lsp.Diagnostic {
	mapped := make(map[string][]lsp.Diagnostic)
	for _, file := range results {
		if len(file.Messages) == 0 {
			continue
		}
		diags := make([]lsp.Diagnostic, 0, len(file.Messages))
		for _, msg := range file.Messages {
			diags = append(diags, MapMessage(msg))
		}
		mapped[file.FilePath] = diags
	}
	return mapped
}

// MapMessage converts a single engine message into a host diagnostic.
//
// Description:
//
//	The engine reports 1-based line and column; the host expects
//	0-based. A missing or zero coordinate is treated as 1 before
//	conversion so the diagnostic clamps to the start of the document
//	rather than going negative. The range always covers a single
//	character starting at the finding's attachment point; hosts render
//	that as a squiggle on the token under it.
func MapMessage(msg lint.Message) lsp.Diagnostic {
	line := msg.Line
	if line < 1 {
		line = 1
	}
	col := msg.Column
	if col < 1 {
		col = 1
	}

	code := msg.RuleID
	if code == "" {
		code = FallbackCode
	}

	return lsp.Diagnostic{
		Range: lsp.Range{
			Start: lsp.Position{Line: line - 1, Character: col - 1},
			End:   lsp.Position{Line: line - 1, Character: col},
		},
		Severity: mapSeverity(msg.Severity),
		Code:     code,
		Source:   Source,
		Message:  msg.Message,
	}
}

// mapSeverity converts the engine's severity scale to the host's.
// The engine uses 2 for errors and 1 for warnings; anything
// unrecognized is reported as a warning rather than dropped.
func mapSeverity(severity int) lsp.DiagnosticSeverity {
	if severity == 2 {
		return lsp.SeverityError
	}
	return lsp.SeverityWarning
}
