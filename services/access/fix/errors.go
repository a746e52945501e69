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
	"errors"
	"fmt"
)

// Sentinel errors for the fix package. Each maps to one terminal
// pipeline outcome; none triggers a retry.
var (
	// ErrNoCredential indicates the completion-service API key is not
	// configured. The pipeline aborts before any network activity.
	ErrNoCredential = errors.New("completion service credential not configured")

	// ErrSnippetUnavailable indicates the finding's document or range
	// could not be read from the current document state.
	ErrSnippetUnavailable = errors.New("snippet at finding range unavailable")

	// ErrCompletionFailed indicates the completion service returned a
	// non-success status or the transport failed.
	ErrCompletionFailed = errors.New("completion request failed")

	// ErrNoFixAvailable indicates the reply contained no fenced code
	// block. Soft failure: the user is warned, nothing is mutated.
	ErrNoFixAvailable = errors.New("no fix available in completion reply")

	// ErrEditRejected indicates the host declined the workspace edit,
	// typically because the range went stale under concurrent edits.
	ErrEditRejected = errors.New("host rejected the edit")

	// ErrInvalidArguments indicates a malformed deferred command payload.
	ErrInvalidArguments = errors.New("invalid fix command arguments")
)

// CompletionError carries the remote service's status alongside the
// sentinel so the outcome message can include the status text.
//
// Thread Safety: Immutable after creation.
type CompletionError struct {
	// StatusCode is the HTTP status, 0 for transport failures.
	StatusCode int

	// Status is the human-readable status or transport error text.
	Status string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion request failed: %d %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("completion request failed: %s", e.Status)
}

// Unwrap returns ErrCompletionFailed so errors.Is works on the sentinel.
func (e *CompletionError) Unwrap() error {
	return ErrCompletionFailed
}
