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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AleutianAI/AleutianAccess/pkg/logging"
	"github.com/AleutianAI/AleutianAccess/services/access/config"
	"github.com/AleutianAI/AleutianAccess/services/access/diagnostic"
	"github.com/AleutianAI/AleutianAccess/services/access/fix"
	"github.com/AleutianAI/AleutianAccess/services/access/lint"
	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// ServerName identifies this server to the host.
const ServerName = "aleutian-access"

// =============================================================================
// SERVER
// =============================================================================

// Server is the accessibility language server.
//
// Description:
//
//	Owns the dispatch loop over one host connection. Analysis and
//	publishing run inline in the loop (the host serializes commands);
//	the fix pipeline runs in its own goroutine because it issues a
//	workspace/applyEdit request whose response must travel back through
//	the same loop.
//
// Thread Safety: Run must be called once, from one goroutine.
type Server struct {
	conn    *lsp.Conn
	logger  *logging.Logger
	version string

	cfg      config.Config
	root     string
	docs     *Documents
	store    *diagnostic.Store
	runner   *lint.Runner
	pipeline *fix.Pipeline

	shutdownSeen bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported to the host.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a server over the given streams.
//
// Inputs:
//
//	r - Host messages (stdin)
//	w - Server messages (stdout)
func New(r io.Reader, w io.Writer, opts ...Option) *Server {
	s := &Server{
		conn:    lsp.NewConn(r, w),
		logger:  logging.Default(),
		version: "dev",
		cfg:     config.Default(),
		docs:    NewDocuments(),
		store:   diagnostic.NewStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the dispatch loop until the host exits or disconnects.
//
// Outputs:
//
//	error - nil on clean exit (exit after shutdown, or EOF),
//	        lsp.ErrExitWithoutShutdown on a protocol-violating exit
func (s *Server) Run(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("ctx must not be nil")
	}

	s.logger.Info("language server started", "version", s.version)

	for {
		if err := ctx.Err(); err != nil {
			s.conn.Close()
			return err
		}

		msg, err := s.conn.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, lsp.ErrConnClosed) {
				s.logger.Info("host closed the connection")
				return nil
			}
			return fmt.Errorf("reading host message: %w", err)
		}

		if err := s.handle(ctx, msg); err != nil {
			if errors.Is(err, lsp.ErrExit) {
				s.logger.Info("exit requested, stopping")
				return nil
			}
			if errors.Is(err, lsp.ErrExitWithoutShutdown) {
				return err
			}
			s.logger.Error("handling message failed", "method", msg.Method, "error", err)
		}
	}
}

// handle dispatches a single host request or notification.
func (s *Server) handle(ctx context.Context, msg *lsp.Message) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		s.runChecks(ctx)
		return nil
	case "shutdown":
		s.shutdownSeen = true
		return s.conn.Reply(msg.ID, nil)
	case "exit":
		s.conn.Close()
		if s.shutdownSeen {
			return lsp.ErrExit
		}
		return lsp.ErrExitWithoutShutdown

	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(ctx, msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)

	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	case "workspace/executeCommand":
		return s.handleExecuteCommand(ctx, msg)

	default:
		// Host housekeeping ($/setTrace and friends) is ignored;
		// unknown requests get a proper error so the host can move on.
		if msg.IsNotification() || strings.HasPrefix(msg.Method, "$/") {
			return nil
		}
		return s.conn.ReplyError(msg.ID, lsp.CodeMethodNotFound,
			fmt.Sprintf("method %q not supported", msg.Method))
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// handleInitialize resolves the workspace root, loads configuration,
// and advertises capabilities.
func (s *Server) handleInitialize(msg *lsp.Message) error {
	var params lsp.InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.conn.ReplyError(msg.ID, lsp.CodeInvalidParams, err.Error())
	}

	s.root = resolveRoot(params)
	s.logger.Info("initializing", "root", s.root)

	cfg, err := config.Load(s.root)
	if err != nil {
		// Defaults still allow the server to function; the user is told
		// their file was ignored.
		s.logger.Warn("workspace configuration rejected", "error", err)
		s.showMessage(lsp.MessageError,
			fmt.Sprintf("Configuration file ignored: %v", err))
		cfg = config.Default()
	}
	s.cfg = cfg

	s.runner = lint.NewRunner(
		lint.WithEngineConfig(cfg.EngineConfig()),
		lint.WithLogger(s.logger),
	)
	s.pipeline = fix.NewPipeline(s.buildCompleter(), &hostAdapter{s: s},
		fix.WithLogger(s.logger))

	result := lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    1, // full document sync
				Save:      &lsp.SaveOptions{IncludeText: false},
			},
			CodeActionProvider: &lsp.CodeActionOptions{
				CodeActionKinds: []string{lsp.CodeActionKindQuickFix},
			},
			ExecuteCommandProvider: &lsp.ExecuteCommandOptions{
				Commands: []string{fix.CommandRunChecks, fix.CommandApplyFix},
			},
		},
		ServerInfo: &lsp.ServerInfo{Name: ServerName, Version: s.version},
	}
	return s.conn.Reply(msg.ID, result)
}

// buildCompleter creates the completion client, or nil when the
// credential is absent. A nil completer makes the pipeline abort every
// invocation at its precondition check with zero network calls.
func (s *Server) buildCompleter() fix.Completer {
	key := fix.ResolveAPIKey()
	if key == "" {
		s.logger.Warn("no completion credential configured, quick fixes will be unavailable")
		return nil
	}

	client, err := fix.NewOpenAIClient(key,
		fix.WithModel(s.cfg.Model.Name),
		fix.WithMaxTokens(s.cfg.Model.MaxTokens),
		fix.WithTemperature(s.cfg.Model.Temperature),
	)
	if err != nil {
		s.logger.Warn("completion client unavailable", "error", err)
		return nil
	}
	return client
}

// resolveRoot picks the workspace root from the initialize params,
// preferring rootUri, then workspace folders, then the deprecated
// rootPath.
func resolveRoot(params lsp.InitializeParams) string {
	if params.RootURI != "" {
		if path, err := PathFromURI(params.RootURI); err == nil {
			return path
		}
	}
	if len(params.WorkspaceFolders) > 0 {
		if path, err := PathFromURI(params.WorkspaceFolders[0].URI); err == nil {
			return path
		}
	}
	return params.RootPath
}

// =============================================================================
// DOCUMENT SYNC
// =============================================================================

func (s *Server) handleDidOpen(msg *lsp.Message) error {
	var params lsp.DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didOpen params: %w", err)
	}
	path, err := PathFromURI(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.docs.Open(path, params.TextDocument.Text)
	return nil
}

func (s *Server) handleDidChange(msg *lsp.Message) error {
	var params lsp.DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didChange params: %w", err)
	}
	path, err := PathFromURI(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.docs.ApplyChanges(path, params.ContentChanges)
	return nil
}

func (s *Server) handleDidSave(ctx context.Context, msg *lsp.Message) error {
	var params lsp.DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didSave params: %w", err)
	}
	// Saved content is on disk now; re-validate the workspace.
	s.runChecks(ctx)
	return nil
}

func (s *Server) handleDidClose(msg *lsp.Message) error {
	var params lsp.DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didClose params: %w", err)
	}
	path, err := PathFromURI(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.docs.Close(path)
	return nil
}

// =============================================================================
// CODE ACTIONS & COMMANDS
// =============================================================================

func (s *Server) handleCodeAction(msg *lsp.Message) error {
	var params lsp.CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.conn.ReplyError(msg.ID, lsp.CodeInvalidParams, err.Error())
	}
	path, err := PathFromURI(params.TextDocument.URI)
	if err != nil {
		return s.conn.ReplyError(msg.ID, lsp.CodeInvalidParams, err.Error())
	}

	// Prefer the host-provided context; fall back to the store for
	// hosts that send an empty context.
	diags := params.Context.Diagnostics
	if len(diags) == 0 {
		diags = s.store.Get(path)
	}

	actions := fix.BindActions(path, params.Range, diags)
	return s.conn.Reply(msg.ID, actions)
}

func (s *Server) handleExecuteCommand(ctx context.Context, msg *lsp.Message) error {
	var params lsp.ExecuteCommandParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.conn.ReplyError(msg.ID, lsp.CodeInvalidParams, err.Error())
	}

	switch params.Command {
	case fix.CommandRunChecks:
		if err := s.conn.Reply(msg.ID, nil); err != nil {
			return err
		}
		s.runChecks(ctx)
		return nil

	case fix.CommandApplyFix:
		args, err := fix.DecodeArgs(params.Arguments)
		if err != nil {
			return s.conn.ReplyError(msg.ID, lsp.CodeInvalidParams, err.Error())
		}
		if err := s.conn.Reply(msg.ID, nil); err != nil {
			return err
		}
		// The pipeline issues workspace/applyEdit and waits for the
		// host's response, which only the dispatch loop can deliver.
		// It must not run inline here.
		go func() {
			if err := s.pipeline.Run(ctx, args); err != nil {
				s.logger.Debug("fix invocation ended", "error", err)
			}
		}()
		return nil

	default:
		return s.conn.ReplyError(msg.ID, lsp.CodeInvalidParams,
			fmt.Sprintf("unknown command %q", params.Command))
	}
}

// =============================================================================
// CHECK RUN
// =============================================================================

// runChecks executes the full analyze-map-publish pass. Analysis errors
// are surfaced to the user and logged; they never stop the server.
func (s *Server) runChecks(ctx context.Context) {
	if s.root == "" {
		s.showMessage(lsp.MessageError,
			"Accessibility checks need an open workspace folder.")
		return
	}
	if s.runner == nil {
		return
	}

	results, err := s.runner.Run(ctx, s.root)
	if err != nil {
		s.showMessage(lsp.MessageError,
			fmt.Sprintf("Accessibility check failed: %v", err))
		return
	}

	s.store.Replace(diagnostic.MapResults(results))
	if err := s.store.PublishAll(&hostAdapter{s: s}); err != nil {
		s.logger.Error("publishing diagnostics failed", "error", err)
	}
	s.logger.Info("checks completed", "findings", s.store.Count())
}

// showMessage surfaces a user-visible message, logging delivery errors.
func (s *Server) showMessage(messageType lsp.MessageType, message string) {
	err := s.conn.Notify("window/showMessage", lsp.ShowMessageParams{
		Type:    messageType,
		Message: message,
	})
	if err != nil {
		s.logger.Error("showMessage delivery failed", "error", err)
	}
}

// =============================================================================
// HOST ADAPTER
// =============================================================================

// hostAdapter exposes the connection and overlay as the narrow surfaces
// the diagnostic store and fix pipeline need.
type hostAdapter struct {
	s *Server
}

// PublishDiagnostics implements diagnostic.Publisher.
func (h *hostAdapter) PublishDiagnostics(path string, diags []lsp.Diagnostic) error {
	if diags == nil {
		diags = []lsp.Diagnostic{}
	}
	return h.s.conn.Notify("textDocument/publishDiagnostics", lsp.PublishDiagnosticsParams{
		URI:         URIFromPath(path),
		Diagnostics: diags,
	})
}

// ReadRange implements fix.Host against the document overlay.
func (h *hostAdapter) ReadRange(path string, rng lsp.Range) (string, error) {
	return h.s.docs.ReadRange(path, rng)
}

// ApplyEdit implements fix.Host via workspace/applyEdit.
func (h *hostAdapter) ApplyEdit(ctx context.Context, label, path string, rng lsp.Range, newText string) error {
	params := lsp.ApplyWorkspaceEditParams{
		Label: label,
		Edit: lsp.WorkspaceEdit{
			Changes: map[string][]lsp.TextEdit{
				URIFromPath(path): {{Range: rng, NewText: newText}},
			},
		},
	}

	raw, err := h.s.conn.Request(ctx, "workspace/applyEdit", params)
	if err != nil {
		return err
	}

	var result lsp.ApplyWorkspaceEditResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decoding applyEdit response: %w", err)
	}
	if !result.Applied {
		reason := result.FailureReason
		if reason == "" {
			reason = "edit rejected by the editor"
		}
		return errors.New(reason)
	}
	return nil
}

// ShowMessage implements fix.Host.
func (h *hostAdapter) ShowMessage(messageType lsp.MessageType, message string) {
	h.s.showMessage(messageType, message)
}
