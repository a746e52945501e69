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
	"regexp"
	"strings"
)

// =============================================================================
// REGEX PATTERNS
// =============================================================================

var (
	// fencedBlockPattern matches the first fenced code block, with or
	// without a language tag after the opening fence.
	fencedBlockPattern = regexp.MustCompile("(?s)```[a-zA-Z0-9+_-]*\r?\n?(.*?)```")

	// explanationPattern matches a line beginning with "Explanation:"
	// (case-insensitive) and captures everything after it.
	explanationPattern = regexp.MustCompile(`(?is)(?:^|\n)\s*explanation:\s*(.+)`)
)

// =============================================================================
// RESULT TYPE
// =============================================================================

// Result is the parsed outcome of a completion reply.
//
// Thread Safety: Immutable after creation.
type Result struct {
	// FixedCode is the interior of the first fenced block, trimmed.
	// Empty means no fix is available and nothing may be mutated.
	FixedCode string

	// Explanation is the text after the "Explanation:" marker, trimmed.
	// Empty when the reply carried no explanation.
	Explanation string
}

// HasFix reports whether the reply produced applicable code.
func (r Result) HasFix() bool {
	return r.FixedCode != ""
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCompletion extracts the fixed code and explanation from a raw
// completion reply.
//
// Description:
//
//	The first fenced block wins when the reply contains several; the
//	explanation is located independently of the block, so prose before
//	the code does not break either extraction. Absence of either field
//	is not an error here. Callers decide what an empty FixedCode means
//	(the pipeline treats it as a terminal no-fix outcome).
func ParseCompletion(raw string) Result {
	var result Result

	if m := fencedBlockPattern.FindStringSubmatch(raw); m != nil {
		result.FixedCode = strings.TrimSpace(m[1])
	}
	if m := explanationPattern.FindStringSubmatch(raw); m != nil {
		result.Explanation = strings.TrimSpace(m[1])
	}

	return result
}
