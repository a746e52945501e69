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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianAccess/pkg/logging"
	"github.com/AleutianAI/AleutianAccess/services/access/diagnostic"
	"github.com/AleutianAI/AleutianAccess/services/access/fix"
	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

// frame wraps a JSON body in a Content-Length envelope.
func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

// decodeFrames splits framed output into decoded message bodies.
func decodeFrames(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	rest := string(data)
	for rest != "" {
		idx := strings.Index(rest, "\r\n\r\n")
		if idx < 0 {
			t.Fatalf("unterminated header block in %q", rest)
		}
		var length int
		for _, line := range strings.Split(rest[:idx], "\r\n") {
			if strings.HasPrefix(line, "Content-Length:") {
				fmt.Sscanf(line, "Content-Length: %d", &length)
			}
		}
		body := rest[idx+4 : idx+4+length]
		rest = rest[idx+4+length:]

		var decoded map[string]any
		if err := json.Unmarshal([]byte(body), &decoded); err != nil {
			t.Fatalf("decoding %q: %v", body, err)
		}
		out = append(out, decoded)
	}
	return out
}

// quietServer builds a server reading the given framed input.
func quietServer(t *testing.T, input string, output *bytes.Buffer) *Server {
	t.Helper()
	return New(strings.NewReader(input), output,
		WithLogger(logging.New(logging.Config{Quiet: true})),
		WithVersion("test"))
}

// responseByID finds the response frame for a request ID.
func responseByID(t *testing.T, frames []map[string]any, id float64) map[string]any {
	t.Helper()
	for _, f := range frames {
		if f["id"] == id && f["method"] == nil {
			return f
		}
	}
	t.Fatalf("no response for id %v in %v", id, frames)
	return nil
}

func initializeFrame(t *testing.T, id int, root string) string {
	t.Helper()
	params, err := json.Marshal(lsp.InitializeParams{RootURI: URIFromPath(root)})
	if err != nil {
		t.Fatal(err)
	}
	return frame(fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"initialize","params":%s}`, id, params))
}

func TestServerLifecycle(t *testing.T) {
	root := t.TempDir()
	input := initializeFrame(t, 1, root) +
		frame(`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`) +
		frame(`{"jsonrpc":"2.0","method":"exit"}`)

	var output bytes.Buffer
	s := quietServer(t, input, &output)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	frames := decodeFrames(t, output.Bytes())
	initResp := responseByID(t, frames, 1)

	result, ok := initResp["result"].(map[string]any)
	if !ok {
		t.Fatalf("initialize result missing: %v", initResp)
	}
	caps, ok := result["capabilities"].(map[string]any)
	if !ok {
		t.Fatalf("capabilities missing: %v", result)
	}
	if caps["codeActionProvider"] == nil {
		t.Error("server must advertise code actions")
	}
	if caps["executeCommandProvider"] == nil {
		t.Error("server must advertise commands")
	}

	// shutdown got its response too
	responseByID(t, frames, 2)
}

func TestServerExitWithoutShutdown(t *testing.T) {
	input := frame(`{"jsonrpc":"2.0","method":"exit"}`)
	var output bytes.Buffer
	s := quietServer(t, input, &output)

	err := s.Run(context.Background())
	if !errors.Is(err, lsp.ErrExitWithoutShutdown) {
		t.Errorf("Expected ErrExitWithoutShutdown, got %v", err)
	}
}

func TestServerEOFIsClean(t *testing.T) {
	var output bytes.Buffer
	s := quietServer(t, "", &output)
	if err := s.Run(context.Background()); err != nil {
		t.Errorf("EOF should end the loop cleanly, got %v", err)
	}
}

func TestServerCodeAction(t *testing.T) {
	root := t.TempDir()

	diag := lsp.Diagnostic{
		Range: lsp.Range{
			Start: lsp.Position{Line: 2, Character: 6},
			End:   lsp.Position{Line: 2, Character: 7},
		},
		Severity: lsp.SeverityError,
		Code:     "jsx-a11y/alt-text",
		Source:   diagnostic.Source,
		Message:  "img elements must have an alt prop.",
	}
	foreign := diag
	foreign.Source = "typescript"

	params, err := json.Marshal(lsp.CodeActionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: "file:///src/App.jsx"},
		Range:        diag.Range,
		Context:      lsp.CodeActionContext{Diagnostics: []lsp.Diagnostic{diag, foreign}},
	})
	if err != nil {
		t.Fatal(err)
	}

	input := initializeFrame(t, 1, root) +
		frame(fmt.Sprintf(`{"jsonrpc":"2.0","id":2,"method":"textDocument/codeAction","params":%s}`, params)) +
		frame(`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`) +
		frame(`{"jsonrpc":"2.0","method":"exit"}`)

	var output bytes.Buffer
	s := quietServer(t, input, &output)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	frames := decodeFrames(t, output.Bytes())
	resp := responseByID(t, frames, 2)

	actions, ok := resp["result"].([]any)
	if !ok {
		t.Fatalf("codeAction result missing: %v", resp)
	}
	if len(actions) != 1 {
		t.Fatalf("Expected 1 action (foreign diagnostic ignored), got %d", len(actions))
	}

	action := actions[0].(map[string]any)
	if action["kind"] != lsp.CodeActionKindQuickFix {
		t.Errorf("kind = %v", action["kind"])
	}
	command := action["command"].(map[string]any)
	if command["command"] != fix.CommandApplyFix {
		t.Errorf("command = %v", command["command"])
	}
}

func TestServerUnknownMethod(t *testing.T) {
	root := t.TempDir()
	input := initializeFrame(t, 1, root) +
		frame(`{"jsonrpc":"2.0","id":2,"method":"textDocument/hover","params":{}}`) +
		frame(`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`) +
		frame(`{"jsonrpc":"2.0","method":"exit"}`)

	var output bytes.Buffer
	s := quietServer(t, input, &output)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	frames := decodeFrames(t, output.Bytes())
	resp := responseByID(t, frames, 2)
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected an error response: %v", resp)
	}
	if errObj["code"] != float64(lsp.CodeMethodNotFound) {
		t.Errorf("code = %v", errObj["code"])
	}
}

func TestServerUnknownCommand(t *testing.T) {
	root := t.TempDir()
	input := initializeFrame(t, 1, root) +
		frame(`{"jsonrpc":"2.0","id":2,"method":"workspace/executeCommand","params":{"command":"other.command"}}`) +
		frame(`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`) +
		frame(`{"jsonrpc":"2.0","method":"exit"}`)

	var output bytes.Buffer
	s := quietServer(t, input, &output)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	frames := decodeFrames(t, output.Bytes())
	resp := responseByID(t, frames, 2)
	if _, ok := resp["error"].(map[string]any); !ok {
		t.Fatalf("expected an error response: %v", resp)
	}
}

func TestServerDocumentSync(t *testing.T) {
	root := t.TempDir()

	open := `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///src/App.jsx","languageId":"javascriptreact","version":1,"text":"<img />"}}}`
	change := `{"jsonrpc":"2.0","method":"textDocument/didChange","params":{"textDocument":{"uri":"file:///src/App.jsx","version":2},"contentChanges":[{"text":"<img alt=\"\" />"}]}}`

	input := initializeFrame(t, 1, root) +
		frame(open) + frame(change) +
		frame(`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`) +
		frame(`{"jsonrpc":"2.0","method":"exit"}`)

	var output bytes.Buffer
	s := quietServer(t, input, &output)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, ok := s.docs.Get("/src/App.jsx")
	if !ok {
		t.Fatal("document should be open")
	}
	if got != `<img alt="" />` {
		t.Errorf("overlay = %q", got)
	}
}
