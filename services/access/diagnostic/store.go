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
	"sort"
	"sync"

	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// Publisher delivers a document's complete diagnostic set to the host.
// An empty slice clears whatever the host currently shows for the path.
type Publisher interface {
	PublishDiagnostics(path string, diagnostics []lsp.Diagnostic) error
}

// Store holds the current diagnostics per file.
//
// Description:
//
//	Each analysis run replaces the whole set; there is no incremental
//	merge. The store remembers which paths it last published so that a
//	file fixed between runs gets an explicit empty publish, clearing
//	stale squiggles in the editor.
//
// Thread Safety: All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	byPath    map[string][]lsp.Diagnostic
	published map[string]struct{}
}

// NewStore creates an empty diagnostic store.
func NewStore() *Store {
	return &Store{
		byPath:    make(map[string][]lsp.Diagnostic),
		published: make(map[string]struct{}),
	}
}

// Replace swaps in a complete new diagnostic set.
//
// Inputs:
//
//	byPath - Diagnostics grouped by file path, as produced by MapResults
func (s *Store) Replace(byPath map[string][]lsp.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byPath = make(map[string][]lsp.Diagnostic, len(byPath))
	for path, diags := range byPath {
		s.byPath[path] = diags
	}
}

// Get returns the current diagnostics for a path. The returned slice
// must not be modified.
func (s *Store) Get(path string) []lsp.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byPath[path]
}

// Paths returns the paths that currently have diagnostics, sorted.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.byPath))
	for path := range s.byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Count returns the total number of diagnostics across all paths.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, diags := range s.byPath {
		total += len(diags)
	}
	return total
}

// PublishAll pushes the current set to the host.
//
// Description:
//
//	Publishes every path with diagnostics, then publishes an empty set
//	for each path that was included in the previous publish but has no
//	findings now. Publish order is sorted for deterministic output.
//
// Outputs:
//
//	error - The first publish failure, if any. The published bookkeeping
//	        is updated regardless so a later run does not re-clear.
func (s *Store) PublishAll(pub Publisher) error {
	s.mu.Lock()
	current := make(map[string][]lsp.Diagnostic, len(s.byPath))
	for path, diags := range s.byPath {
		current[path] = diags
	}
	previous := s.published

	nextPublished := make(map[string]struct{}, len(current))
	for path := range current {
		nextPublished[path] = struct{}{}
	}
	s.published = nextPublished
	s.mu.Unlock()

	var firstErr error

	paths := make([]string, 0, len(current))
	for path := range current {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := pub.PublishDiagnostics(path, current[path]); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	stale := make([]string, 0)
	for path := range previous {
		if _, stillHas := current[path]; !stillHas {
			stale = append(stale, path)
		}
	}
	sort.Strings(stale)
	for _, path := range stale {
		if err := pub.PublishDiagnostics(path, []lsp.Diagnostic{}); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Clear drops all diagnostics without touching publish bookkeeping.
// A following PublishAll emits the empty publishes for cleared paths.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPath = make(map[string][]lsp.Diagnostic)
}
