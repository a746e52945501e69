// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lsp

import "encoding/json"

// =============================================================================
// POSITION & RANGE TYPES
// =============================================================================

// Position represents a position in a text document.
// Line and character are 0-indexed per LSP specification.
type Position struct {
	// Line is the 0-indexed line number.
	Line int `json:"line"`

	// Character is the 0-indexed character offset within the line.
	Character int `json:"character"`
}

// Range represents a range in a text document.
type Range struct {
	// Start is the inclusive start position.
	Start Position `json:"start"`

	// End is the exclusive end position.
	End Position `json:"end"`
}

// Overlaps reports whether other overlaps this range.
//
// Two ranges overlap when neither ends before the other starts. A
// zero-width cursor position inside the range counts as overlapping.
func (r Range) Overlaps(other Range) bool {
	if positionBefore(r.End, other.Start) {
		return false
	}
	if positionBefore(other.End, r.Start) {
		return false
	}
	return true
}

// positionBefore reports whether a is strictly before b.
func positionBefore(a, b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// DiagnosticSeverity is the LSP severity scale.
type DiagnosticSeverity int

// Diagnostic severities as defined by the LSP specification.
const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// Diagnostic represents a single finding rendered by the host.
type Diagnostic struct {
	// Range is the span the finding applies to.
	Range Range `json:"range"`

	// Severity is the finding severity.
	Severity DiagnosticSeverity `json:"severity,omitempty"`

	// Code identifies the rule that produced the finding.
	Code string `json:"code,omitempty"`

	// Source tags the tool that produced the finding.
	Source string `json:"source,omitempty"`

	// Message is the human-readable finding description.
	Message string `json:"message"`
}

// PublishDiagnosticsParams contains params for textDocument/publishDiagnostics.
type PublishDiagnosticsParams struct {
	// URI is the document the diagnostics belong to.
	URI string `json:"uri"`

	// Diagnostics is the complete set for the document. An empty slice
	// clears previously published diagnostics.
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// =============================================================================
// DOCUMENT IDENTIFIERS & SYNC
// =============================================================================

// TextDocumentIdentifier identifies a text document by URI.
type TextDocumentIdentifier struct {
	// URI is the document's URI.
	URI string `json:"uri"`
}

// TextDocumentItem represents a text document with its content.
type TextDocumentItem struct {
	// URI is the document's URI.
	URI string `json:"uri"`

	// LanguageID is the language identifier (e.g., "javascriptreact").
	LanguageID string `json:"languageId"`

	// Version is the version number of this document.
	Version int `json:"version"`

	// Text is the content of the document.
	Text string `json:"text"`
}

// VersionedTextDocumentIdentifier identifies a specific version of a document.
type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier

	// Version is the version number.
	Version int `json:"version"`
}

// DidOpenTextDocumentParams contains params for textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	// TextDocument is the document that was opened.
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidCloseTextDocumentParams contains params for textDocument/didClose.
type DidCloseTextDocumentParams struct {
	// TextDocument is the document that was closed.
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DidChangeTextDocumentParams contains params for textDocument/didChange.
type DidChangeTextDocumentParams struct {
	// TextDocument is the document that changed.
	TextDocument VersionedTextDocumentIdentifier `json:"textDocument"`

	// ContentChanges is the list of changes.
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// TextDocumentContentChangeEvent describes a content change event.
type TextDocumentContentChangeEvent struct {
	// Range is the range that got replaced. Omit for full document sync.
	Range *Range `json:"range,omitempty"`

	// Text is the new text for the range or full document.
	Text string `json:"text"`
}

// DidSaveTextDocumentParams contains params for textDocument/didSave.
type DidSaveTextDocumentParams struct {
	// TextDocument is the document that was saved.
	TextDocument TextDocumentIdentifier `json:"textDocument"`

	// Text is the saved content when the server requested includeText.
	Text *string `json:"text,omitempty"`
}

// =============================================================================
// CODE ACTIONS & COMMANDS
// =============================================================================

// CodeActionKindQuickFix marks an action as a quick fix.
const CodeActionKindQuickFix = "quickfix"

// CodeActionParams contains params for textDocument/codeAction.
type CodeActionParams struct {
	// TextDocument is the document the action was requested in.
	TextDocument TextDocumentIdentifier `json:"textDocument"`

	// Range is the range the action was requested for.
	Range Range `json:"range"`

	// Context carries the diagnostics overlapping the range.
	Context CodeActionContext `json:"context"`
}

// CodeActionContext contains additional code action information.
type CodeActionContext struct {
	// Diagnostics are the findings overlapping the requested range.
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// CodeAction represents a remediation the host can offer.
type CodeAction struct {
	// Title is the human-readable action label.
	Title string `json:"title"`

	// Kind is the action kind (e.g., "quickfix").
	Kind string `json:"kind,omitempty"`

	// Diagnostics are the findings this action resolves.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	// IsPreferred marks the action as preferred at its position.
	IsPreferred bool `json:"isPreferred,omitempty"`

	// Command is the deferred invocation executed when the user picks
	// the action.
	Command *Command `json:"command,omitempty"`
}

// Command is a deferred server invocation bound to an action.
type Command struct {
	// Title is the command label.
	Title string `json:"title"`

	// Command is the command identifier.
	Command string `json:"command"`

	// Arguments are the command arguments, captured by value.
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// ExecuteCommandParams contains params for workspace/executeCommand.
type ExecuteCommandParams struct {
	// Command is the command identifier to execute.
	Command string `json:"command"`

	// Arguments are the arguments the action captured.
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// =============================================================================
// WORKSPACE EDITS
// =============================================================================

// TextEdit represents a single text change.
type TextEdit struct {
	// Range is the range to replace.
	Range Range `json:"range"`

	// NewText is the replacement text.
	NewText string `json:"newText"`
}

// WorkspaceEdit represents changes to one or more documents.
type WorkspaceEdit struct {
	// Changes is a map from URI to list of text edits.
	Changes map[string][]TextEdit `json:"changes,omitempty"`
}

// ApplyWorkspaceEditParams contains params for workspace/applyEdit.
type ApplyWorkspaceEditParams struct {
	// Label is shown to the user in the undo stack.
	Label string `json:"label,omitempty"`

	// Edit is the edit to apply.
	Edit WorkspaceEdit `json:"edit"`
}

// ApplyWorkspaceEditResult is the client's response to workspace/applyEdit.
type ApplyWorkspaceEditResult struct {
	// Applied indicates whether the edit was applied.
	Applied bool `json:"applied"`

	// FailureReason explains a rejected edit.
	FailureReason string `json:"failureReason,omitempty"`
}

// =============================================================================
// USER MESSAGES
// =============================================================================

// MessageType is the window/showMessage severity scale.
type MessageType int

// Message types as defined by the LSP specification.
const (
	MessageError   MessageType = 1
	MessageWarning MessageType = 2
	MessageInfo    MessageType = 3
)

// ShowMessageParams contains params for window/showMessage.
type ShowMessageParams struct {
	// Type is the message severity.
	Type MessageType `json:"type"`

	// Message is the text shown to the user.
	Message string `json:"message"`
}

// =============================================================================
// INITIALIZE TYPES
// =============================================================================

// InitializeParams contains initialization parameters.
type InitializeParams struct {
	// ProcessID is the process ID of the parent process.
	ProcessID int `json:"processId"`

	// RootURI is the root URI of the workspace (preferred over rootPath).
	RootURI string `json:"rootUri"`

	// RootPath is the root path of the workspace (deprecated).
	RootPath string `json:"rootPath,omitempty"`

	// WorkspaceFolders are the workspace folders if supported.
	WorkspaceFolders []WorkspaceFolder `json:"workspaceFolders,omitempty"`
}

// WorkspaceFolder represents a workspace folder.
type WorkspaceFolder struct {
	// URI is the folder URI.
	URI string `json:"uri"`

	// Name is the name of the folder.
	Name string `json:"name"`
}

// InitializeResult contains the server's response to initialize.
type InitializeResult struct {
	// Capabilities describes what the server supports.
	Capabilities ServerCapabilities `json:"capabilities"`

	// ServerInfo contains optional server information.
	ServerInfo *ServerInfo `json:"serverInfo,omitempty"`
}

// ServerInfo contains information about the server.
type ServerInfo struct {
	// Name is the server's name.
	Name string `json:"name"`

	// Version is the server's version.
	Version string `json:"version,omitempty"`
}

// ServerCapabilities describes what the server supports.
type ServerCapabilities struct {
	// TextDocumentSync describes how documents are synced.
	TextDocumentSync *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`

	// CodeActionProvider indicates textDocument/codeAction is supported.
	CodeActionProvider *CodeActionOptions `json:"codeActionProvider,omitempty"`

	// ExecuteCommandProvider lists the commands the server handles.
	ExecuteCommandProvider *ExecuteCommandOptions `json:"executeCommandProvider,omitempty"`
}

// TextDocumentSyncOptions describes document sync behavior.
type TextDocumentSyncOptions struct {
	// OpenClose enables didOpen/didClose notifications.
	OpenClose bool `json:"openClose"`

	// Change is the sync kind: 1 = full, 2 = incremental.
	Change int `json:"change"`

	// Save enables didSave notifications.
	Save *SaveOptions `json:"save,omitempty"`
}

// SaveOptions configures didSave behavior.
type SaveOptions struct {
	// IncludeText requests the full text with each save.
	IncludeText bool `json:"includeText"`
}

// CodeActionOptions describes code action support.
type CodeActionOptions struct {
	// CodeActionKinds lists the kinds this server produces.
	CodeActionKinds []string `json:"codeActionKinds,omitempty"`
}

// ExecuteCommandOptions describes executeCommand support.
type ExecuteCommandOptions struct {
	// Commands lists the command identifiers this server handles.
	Commands []string `json:"commands"`
}
