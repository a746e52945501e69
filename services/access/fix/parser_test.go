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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCompletion(t *testing.T) {
	t.Run("code block with explanation", func(t *testing.T) {
		raw := "```\n<Foo aria-label=\"x\" />\n```\nExplanation: added label"
		result := ParseCompletion(raw)

		assert.Equal(t, `<Foo aria-label="x" />`, result.FixedCode)
		assert.Equal(t, "added label", result.Explanation)
		assert.True(t, result.HasFix())
	})

	t.Run("language tag on the fence", func(t *testing.T) {
		raw := "```jsx\n<img src=\"a.png\" alt=\"\" />\n```\nExplanation: marked decorative"
		result := ParseCompletion(raw)

		assert.Equal(t, `<img src="a.png" alt="" />`, result.FixedCode)
		assert.Equal(t, "marked decorative", result.Explanation)
	})

	t.Run("no fenced block", func(t *testing.T) {
		result := ParseCompletion("I cannot produce a safe fix for this snippet.")

		assert.Empty(t, result.FixedCode)
		assert.False(t, result.HasFix())
	})

	t.Run("no explanation degrades gracefully", func(t *testing.T) {
		result := ParseCompletion("```\n<a href=\"/home\">Home</a>\n```")

		assert.Equal(t, `<a href="/home">Home</a>`, result.FixedCode)
		assert.Empty(t, result.Explanation)
	})

	t.Run("first of several blocks wins", func(t *testing.T) {
		raw := "```\nfirst\n```\nsome prose\n```\nsecond\n```\nExplanation: two options"
		result := ParseCompletion(raw)

		assert.Equal(t, "first", result.FixedCode)
		assert.Equal(t, "two options", result.Explanation)
	})

	t.Run("prose before the block", func(t *testing.T) {
		raw := "Here is the corrected snippet:\n```tsx\n<button type=\"button\">Go</button>\n```\nexplanation: added explicit type"
		result := ParseCompletion(raw)

		assert.Equal(t, `<button type="button">Go</button>`, result.FixedCode)
		assert.Equal(t, "added explicit type", result.Explanation, "marker match is case-insensitive")
	})

	t.Run("multi-line snippet trims only the edges", func(t *testing.T) {
		raw := "```jsx\n<div>\n  <img alt=\"logo\" src=\"l.png\" />\n</div>\n```"
		result := ParseCompletion(raw)

		assert.Equal(t, "<div>\n  <img alt=\"logo\" src=\"l.png\" />\n</div>", result.FixedCode)
	})

	t.Run("empty reply", func(t *testing.T) {
		result := ParseCompletion("")
		assert.False(t, result.HasFix())
		assert.Empty(t, result.Explanation)
	})
}
