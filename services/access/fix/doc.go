// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fix turns a published accessibility finding into an applied
// code change.
//
// The binder offers one quick-fix action per finding this tool owns.
// When the user picks one, the pipeline runs a single pass: check the
// credential, read the snippet at the finding's range, ask the
// completion service for a corrected snippet, parse the reply, and
// apply the replacement through the host. Every failure mode is
// terminal for the invocation; the user re-triggers the action to try
// again. Exactly one user-visible message is produced per invocation.
package fix
