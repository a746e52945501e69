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
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// =============================================================================
// URI HELPERS
// =============================================================================

// PathFromURI converts a file:// URI into a filesystem path.
func PathFromURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing uri %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", parsed.Scheme)
	}

	path := parsed.Path
	// Windows URIs look like file:///C:/dir; strip the leading slash.
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path, nil
}

// URIFromPath converts a filesystem path into a file:// URI.
func URIFromPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path
}

// =============================================================================
// DOCUMENT OVERLAY
// =============================================================================

// Documents tracks the editor's in-memory view of open files.
//
// Description:
//
//	The host sends full or incremental content changes; the overlay is
//	the source of truth for snippet extraction, since the on-disk file
//	may lag behind unsaved edits. Keys are filesystem paths, not URIs.
//
// Thread Safety: All methods are safe for concurrent use.
type Documents struct {
	mu   sync.Mutex
	open map[string]string
}

// NewDocuments creates an empty overlay.
func NewDocuments() *Documents {
	return &Documents{open: make(map[string]string)}
}

// Open records a document's initial content.
func (d *Documents) Open(path, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open[path] = text
}

// Close drops a document from the overlay.
func (d *Documents) Close(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.open, path)
}

// Get returns the current content of an open document.
func (d *Documents) Get(path string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.open[path]
	return text, ok
}

// ApplyChanges applies a didChange batch in order.
//
// Description:
//
//	A change without a range replaces the whole document. A change with
//	a range splices the new text over the 0-based span. Changes to a
//	document that is not open are ignored; the host should not send
//	them but a desynced host must not crash the server.
func (d *Documents) ApplyChanges(path string, changes []lsp.TextDocumentContentChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, ok := d.open[path]
	if !ok {
		return
	}
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start, okStart := offsetAt(text, change.Range.Start)
		end, okEnd := offsetAt(text, change.Range.End)
		if !okStart || !okEnd || end < start {
			continue
		}
		text = text[:start] + change.Text + text[end:]
	}
	d.open[path] = text
}

// ReadRange extracts the text at a 0-based range from the current
// overlay state.
//
// Outputs:
//
//	string - The text at the range
//	error - Non-nil when the document is not open or the range does
//	        not resolve against the current content
func (d *Documents) ReadRange(path string, rng lsp.Range) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, ok := d.open[path]
	if !ok {
		return "", fmt.Errorf("document %s is not open", path)
	}

	start, okStart := offsetAt(text, rng.Start)
	end, okEnd := offsetAt(text, rng.End)
	if !okStart || !okEnd || end < start {
		return "", fmt.Errorf("range %d:%d-%d:%d does not resolve in %s",
			rng.Start.Line, rng.Start.Character, rng.End.Line, rng.End.Character, path)
	}
	return text[start:end], nil
}

// offsetAt converts a 0-based position into a byte offset.
//
// A character offset past the end of its line clamps to the line end,
// matching how hosts treat positions beyond the last column.
func offsetAt(text string, pos lsp.Position) (int, bool) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, false
	}

	offset := 0
	for line := 0; line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return 0, false
		}
		offset += next + 1
	}

	lineEnd := strings.IndexByte(text[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - offset
	}
	char := pos.Character
	if char > lineEnd {
		char = lineEnd
	}
	return offset + char, true
}
