// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command access runs the Aleutian accessibility language server.
//
// The server hosts inside any LSP-capable editor over stdio. It runs
// ESLint with the jsx-a11y ruleset against the workspace's JSX/TSX
// sources, publishes the findings as diagnostics, and offers AI-powered
// quick fixes backed by the OpenAI completion API.
//
// Usage:
//
//	access serve                 # stdio language server (editor-facing)
//	access check ./my-app        # one-shot check, findings to the terminal
//	access version
//
// Credentials:
//
//	OPENAI_API_KEY=sk-...        # enables quick fixes; checks work without it
//
// A workspace may carry a .aleutian-access.yaml overriding the engine
// command, glob patterns, ruleset, model, and limits.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Best effort; developers keep OPENAI_API_KEY in .env locally.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
