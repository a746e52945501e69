// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint invokes the external accessibility analysis engine.
//
// The engine is ESLint configured with the jsx-a11y ruleset, run as a
// subprocess over JSX/TSX sources beneath a workspace root. The engine's
// JSON output is parsed into per-file result records and returned
// unmodified; mapping into editor diagnostics happens downstream in the
// diagnostic package.
//
// Engine failures propagate to the caller. Linting is idempotent and cheap
// enough to re-trigger manually, so there are no retries.
package lint
