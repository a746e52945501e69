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
	"fmt"
	"strings"
)

// systemPrompt frames every fix request. The reply format it demands is
// what ParseCompletion expects: one fenced block, then an Explanation
// line.
const systemPrompt = `You are an expert in web accessibility (WCAG 2.1) and React.
You fix accessibility problems in JSX and TSX snippets.

Reply with exactly:
1. The corrected snippet in a single fenced code block.
2. A line starting with "Explanation:" followed by one short sentence.

Change only what the reported problem requires. Preserve the author's
formatting and naming. If no safe correction exists, reply without a
code block and explain why.`

// BuildUserPrompt renders the per-invocation prompt.
//
// Inputs:
//
//	snippet - The exact text at the finding's range
//	message - The finding's human-readable description
//	ruleID - The rule that produced the finding, may be empty
func BuildUserPrompt(snippet, message, ruleID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Accessibility problem: %s\n", message)
	if ruleID != "" {
		fmt.Fprintf(&b, "Rule: %s\n", ruleID)
	}
	b.WriteString("\nCode:\n```jsx\n")
	b.WriteString(snippet)
	if !strings.HasSuffix(snippet, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\nProvide the corrected code.")

	return b.String()
}
