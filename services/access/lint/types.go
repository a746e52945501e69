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
	"encoding/json"
	"fmt"
)

// =============================================================================
// ENGINE RESULT TYPES
// =============================================================================

// FileResult is one entry of the engine's native per-file output.
//
// The runner returns these unmodified: a file the engine visited but found
// clean still appears here with zero messages. Filtering empty entries is
// the diagnostic mapper's job, not the runner's.
//
// Thread Safety: Immutable after creation by the runner.
type FileResult struct {
	// FilePath is the absolute path the engine reported for the file.
	FilePath string `json:"filePath"`

	// Messages are the findings for this file, in engine order.
	Messages []Message `json:"messages"`

	// ErrorCount is the engine's count of severity-2 messages.
	ErrorCount int `json:"errorCount"`

	// WarningCount is the engine's count of severity-1 messages.
	WarningCount int `json:"warningCount"`
}

// Message is a single engine finding.
//
// Line and Column are 1-based, per the engine's coordinate convention.
// Either may be absent (zero) for file-level findings.
type Message struct {
	// RuleID identifies the rule that fired (e.g., "jsx-a11y/alt-text").
	// May be empty for parse-level findings.
	RuleID string `json:"ruleId"`

	// Severity is the engine severity code: 1 = warning, 2 = error.
	Severity int `json:"severity"`

	// Message is the human-readable finding description.
	Message string `json:"message"`

	// Line is the 1-based line number.
	Line int `json:"line"`

	// Column is the 1-based column number.
	Column int `json:"column"`

	// EndLine is the 1-based end line, when the engine provides one.
	EndLine int `json:"endLine,omitempty"`

	// EndColumn is the 1-based end column, when the engine provides one.
	EndColumn int `json:"endColumn,omitempty"`
}

// =============================================================================
// OUTPUT PARSING
// =============================================================================

// ParseResults parses the engine's JSON output.
//
// Description:
//
//	The engine with --format json produces an array of per-file results.
//	Empty or whitespace-only output yields an empty slice: a run over a
//	tree with no matching files is a valid run with no results.
//
// Inputs:
//
//	data - Raw JSON output from the engine's stdout
//
// Outputs:
//
//	[]FileResult - Parsed per-file results
//	error - Non-nil if JSON parsing fails, wrapping ErrParseOutput
func ParseResults(data []byte) ([]FileResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var results []FileResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseOutput, err)
	}
	return results, nil
}
