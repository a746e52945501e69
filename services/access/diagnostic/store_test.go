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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// recordingPublisher captures every publish for assertions.
type recordingPublisher struct {
	calls []publishCall
	err   error
}

type publishCall struct {
	path  string
	diags []lsp.Diagnostic
}

func (p *recordingPublisher) PublishDiagnostics(path string, diags []lsp.Diagnostic) error {
	p.calls = append(p.calls, publishCall{path: path, diags: diags})
	return p.err
}

func oneDiag(code string) []lsp.Diagnostic {
	return []lsp.Diagnostic{{Code: code, Source: Source, Message: "m"}}
}

func TestStoreReplace(t *testing.T) {
	store := NewStore()
	store.Replace(map[string][]lsp.Diagnostic{
		"/src/A.jsx": oneDiag("jsx-a11y/alt-text"),
		"/src/B.tsx": oneDiag("jsx-a11y/anchor-is-valid"),
	})

	assert.Equal(t, []string{"/src/A.jsx", "/src/B.tsx"}, store.Paths())
	assert.Equal(t, 2, store.Count())

	// A second replace is wholesale, not a merge.
	store.Replace(map[string][]lsp.Diagnostic{
		"/src/C.jsx": oneDiag("jsx-a11y/label-has-associated-control"),
	})
	assert.Equal(t, []string{"/src/C.jsx"}, store.Paths())
	assert.Nil(t, store.Get("/src/A.jsx"))
}

func TestStorePublishAll(t *testing.T) {
	t.Run("publishes every path with findings", func(t *testing.T) {
		store := NewStore()
		store.Replace(map[string][]lsp.Diagnostic{
			"/src/A.jsx": oneDiag("a"),
			"/src/B.tsx": oneDiag("b"),
		})

		pub := &recordingPublisher{}
		require.NoError(t, store.PublishAll(pub))

		require.Len(t, pub.calls, 2)
		assert.Equal(t, "/src/A.jsx", pub.calls[0].path)
		assert.Equal(t, "/src/B.tsx", pub.calls[1].path)
	})

	t.Run("clears paths dropped between runs", func(t *testing.T) {
		store := NewStore()
		store.Replace(map[string][]lsp.Diagnostic{
			"/src/A.jsx": oneDiag("a"),
			"/src/B.tsx": oneDiag("b"),
		})
		require.NoError(t, store.PublishAll(&recordingPublisher{}))

		// The next run fixed B entirely.
		store.Replace(map[string][]lsp.Diagnostic{
			"/src/A.jsx": oneDiag("a"),
		})
		pub := &recordingPublisher{}
		require.NoError(t, store.PublishAll(pub))

		require.Len(t, pub.calls, 2)
		assert.Equal(t, "/src/A.jsx", pub.calls[0].path)
		assert.Equal(t, "/src/B.tsx", pub.calls[1].path)
		assert.Empty(t, pub.calls[1].diags, "dropped path needs an explicit empty publish")
		assert.NotNil(t, pub.calls[1].diags, "empty publish must serialize as [], not null")
	})

	t.Run("clears once, not forever", func(t *testing.T) {
		store := NewStore()
		store.Replace(map[string][]lsp.Diagnostic{"/src/B.tsx": oneDiag("b")})
		require.NoError(t, store.PublishAll(&recordingPublisher{}))

		store.Replace(map[string][]lsp.Diagnostic{})
		require.NoError(t, store.PublishAll(&recordingPublisher{}))

		// Third run still has nothing; B was already cleared.
		pub := &recordingPublisher{}
		require.NoError(t, store.PublishAll(pub))
		assert.Empty(t, pub.calls)
	})

	t.Run("surfaces the first publish error", func(t *testing.T) {
		store := NewStore()
		store.Replace(map[string][]lsp.Diagnostic{"/src/A.jsx": oneDiag("a")})

		wantErr := errors.New("pipe broke")
		err := store.PublishAll(&recordingPublisher{err: wantErr})
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestStoreClear(t *testing.T) {
	store := NewStore()
	store.Replace(map[string][]lsp.Diagnostic{"/src/A.jsx": oneDiag("a")})
	require.NoError(t, store.PublishAll(&recordingPublisher{}))

	store.Clear()
	assert.Equal(t, 0, store.Count())

	// Clearing the in-memory set still clears the host on next publish.
	pub := &recordingPublisher{}
	require.NoError(t, store.PublishAll(pub))
	require.Len(t, pub.calls, 1)
	assert.Empty(t, pub.calls[0].diags)
}
