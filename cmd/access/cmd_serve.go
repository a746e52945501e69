// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianAccess/pkg/logging"
	"github.com/AleutianAI/AleutianAccess/services/access/server"
)

// runServe starts the stdio language server. The editor owns the
// process lifetime; SIGINT/SIGTERM cancel the dispatch loop so an
// orphaned server does not linger after the editor dies.
func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(logLevel),
		Service: "access-lsp",
		JSON:    logJSON,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(os.Stdin, os.Stdout,
		server.WithLogger(logger),
		server.WithVersion(version),
	)
	return srv.Run(ctx)
}
