// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server wires the analysis, diagnostic, and fix components
// into a language server speaking LSP over a single host connection.
//
// The server owns the workspace root, the tool configuration, the
// document overlay, and the diagnostic store. A check run flows
// engine → mapper → store → publish; a quick fix flows
// codeAction → executeCommand → fix pipeline → workspace/applyEdit.
package server
