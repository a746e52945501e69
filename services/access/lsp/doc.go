// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lsp implements the wire protocol of the editor host boundary.
//
// The host speaks JSON-RPC 2.0 with Content-Length framing over
// stdin/stdout, per the Language Server Protocol base protocol. This
// package provides the message types the server exchanges with the host
// and a connection type that frames, correlates, and dispatches messages.
// It has no knowledge of accessibility analysis; higher layers compose it.
package lsp
