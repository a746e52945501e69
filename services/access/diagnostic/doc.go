// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diagnostic converts raw engine findings into host diagnostics
// and tracks the set currently published to the editor.
//
// The mapper is a pure transform from engine coordinates (1-based lines
// and columns) to host coordinates (0-based), tagging every diagnostic
// with this tool's source so downstream layers can recognize their own
// findings. The store holds the latest mapped set wholesale and knows
// which documents need an explicit empty publish to clear stale
// squiggles after a re-run.
package diagnostic
