// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"testing"

	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

func pos(line, char int) lsp.Position {
	return lsp.Position{Line: line, Character: char}
}

func TestPathFromURI(t *testing.T) {
	t.Run("plain path", func(t *testing.T) {
		path, err := PathFromURI("file:///src/App.jsx")
		if err != nil {
			t.Fatalf("PathFromURI: %v", err)
		}
		if path != "/src/App.jsx" {
			t.Errorf("path = %q", path)
		}
	})

	t.Run("encoded characters", func(t *testing.T) {
		path, err := PathFromURI("file:///src/my%20app/App.jsx")
		if err != nil {
			t.Fatalf("PathFromURI: %v", err)
		}
		if path != "/src/my app/App.jsx" {
			t.Errorf("path = %q", path)
		}
	})

	t.Run("non-file scheme", func(t *testing.T) {
		if _, err := PathFromURI("untitled:Untitled-1"); err == nil {
			t.Error("expected an error for a non-file scheme")
		}
	})
}

func TestURIFromPath(t *testing.T) {
	if got := URIFromPath("/src/App.jsx"); got != "file:///src/App.jsx" {
		t.Errorf("URIFromPath = %q", got)
	}
}

func TestDocumentsReadRange(t *testing.T) {
	docs := NewDocuments()
	docs.Open("/src/App.jsx", "line one\nline two\nline three\n")

	t.Run("within a line", func(t *testing.T) {
		got, err := docs.ReadRange("/src/App.jsx", lsp.Range{Start: pos(1, 5), End: pos(1, 8)})
		if err != nil {
			t.Fatalf("ReadRange: %v", err)
		}
		if got != "two" {
			t.Errorf("got %q, want %q", got, "two")
		}
	})

	t.Run("across lines", func(t *testing.T) {
		got, err := docs.ReadRange("/src/App.jsx", lsp.Range{Start: pos(0, 5), End: pos(1, 4)})
		if err != nil {
			t.Fatalf("ReadRange: %v", err)
		}
		if got != "one\nline" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("character clamps to line end", func(t *testing.T) {
		got, err := docs.ReadRange("/src/App.jsx", lsp.Range{Start: pos(0, 5), End: pos(0, 500)})
		if err != nil {
			t.Fatalf("ReadRange: %v", err)
		}
		if got != "one" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("line past end of document", func(t *testing.T) {
		if _, err := docs.ReadRange("/src/App.jsx", lsp.Range{Start: pos(50, 0), End: pos(50, 1)}); err == nil {
			t.Error("expected an error for an unresolvable range")
		}
	})

	t.Run("document not open", func(t *testing.T) {
		if _, err := docs.ReadRange("/src/Other.jsx", lsp.Range{}); err == nil {
			t.Error("expected an error for a closed document")
		}
	})
}

func TestDocumentsApplyChanges(t *testing.T) {
	t.Run("full document replacement", func(t *testing.T) {
		docs := NewDocuments()
		docs.Open("/a.jsx", "old")
		docs.ApplyChanges("/a.jsx", []lsp.TextDocumentContentChangeEvent{{Text: "new content"}})

		got, _ := docs.Get("/a.jsx")
		if got != "new content" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("incremental splice", func(t *testing.T) {
		docs := NewDocuments()
		docs.Open("/a.jsx", "<img src=\"a.png\" />")
		rng := lsp.Range{Start: pos(0, 0), End: pos(0, 19)}
		docs.ApplyChanges("/a.jsx", []lsp.TextDocumentContentChangeEvent{
			{Range: &rng, Text: "<img src=\"a.png\" alt=\"logo\" />"},
		})

		got, _ := docs.Get("/a.jsx")
		if got != "<img src=\"a.png\" alt=\"logo\" />" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("changes apply in order", func(t *testing.T) {
		docs := NewDocuments()
		docs.Open("/a.jsx", "abc")
		first := lsp.Range{Start: pos(0, 0), End: pos(0, 1)}
		second := lsp.Range{Start: pos(0, 2), End: pos(0, 3)}
		docs.ApplyChanges("/a.jsx", []lsp.TextDocumentContentChangeEvent{
			{Range: &first, Text: "X"},
			{Range: &second, Text: "Y"},
		})

		got, _ := docs.Get("/a.jsx")
		if got != "XbY" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("unopened document ignored", func(t *testing.T) {
		docs := NewDocuments()
		docs.ApplyChanges("/ghost.jsx", []lsp.TextDocumentContentChangeEvent{{Text: "x"}})
		if _, ok := docs.Get("/ghost.jsx"); ok {
			t.Error("change to an unopened document must not create it")
		}
	})
}

func TestDocumentsClose(t *testing.T) {
	docs := NewDocuments()
	docs.Open("/a.jsx", "content")
	docs.Close("/a.jsx")
	if _, ok := docs.Get("/a.jsx"); ok {
		t.Error("document should be gone after Close")
	}
}
