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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianAccess/services/access/diagnostic"
	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

func charRange(line, col int) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: line, Character: col},
		End:   lsp.Position{Line: line, Character: col + 1},
	}
}

func TestBindActions(t *testing.T) {
	path := "/src/App.jsx"
	ours := lsp.Diagnostic{
		Range:    charRange(2, 6),
		Severity: lsp.SeverityError,
		Code:     "jsx-a11y/alt-text",
		Source:   diagnostic.Source,
		Message:  "img elements must have an alt prop.",
	}

	t.Run("one action per owned finding", func(t *testing.T) {
		actions := BindActions(path, charRange(2, 6), []lsp.Diagnostic{ours})

		require.Len(t, actions, 1)
		action := actions[0]
		assert.Equal(t, lsp.CodeActionKindQuickFix, action.Kind)
		assert.True(t, action.IsPreferred)
		assert.Contains(t, action.Title, ours.Message)
		require.NotNil(t, action.Command)
		assert.Equal(t, CommandApplyFix, action.Command.Command)
	})

	t.Run("foreign diagnostics produce nothing", func(t *testing.T) {
		foreign := ours
		foreign.Source = "typescript"
		actions := BindActions(path, charRange(2, 6), []lsp.Diagnostic{foreign})
		assert.Empty(t, actions)
	})

	t.Run("non-overlapping findings are skipped", func(t *testing.T) {
		actions := BindActions(path, charRange(40, 0), []lsp.Diagnostic{ours})
		assert.Empty(t, actions)
	})

	t.Run("payload is captured by value", func(t *testing.T) {
		actions := BindActions(path, charRange(2, 6), []lsp.Diagnostic{ours})
		require.Len(t, actions, 1)

		args, err := DecodeArgs(actions[0].Command.Arguments)
		require.NoError(t, err)
		assert.Equal(t, path, args.Path)
		assert.Equal(t, ours.Range, args.Range)
		assert.Equal(t, ours.Message, args.Message)
		assert.Equal(t, ours.Code, args.RuleID)
	})
}

func TestDecodeArgs(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		_, err := DecodeArgs(nil)
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := DecodeArgs([]json.RawMessage{json.RawMessage(`"not an object"`)})
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := DecodeArgs([]json.RawMessage{json.RawMessage(`{"message":"m"}`)})
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})
}
