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
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time with -ldflags.
var version = "dev"

// --- Global Command Variables ---
var (
	logLevel string
	logJSON  bool

	rootCmd = &cobra.Command{
		Use:   "access",
		Short: "Accessibility language server for JSX/TSX sources",
		Long: `access finds accessibility problems in JSX/TSX sources with the
jsx-a11y ESLint ruleset and offers AI-powered quick fixes through any
LSP-capable editor.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the language server over stdio",
		RunE:  runServe, // Defined in cmd_serve.go
	}

	checkCmd = &cobra.Command{
		Use:   "check [root]",
		Short: "Run accessibility checks once and print the findings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck, // Defined in cmd_check.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"Emit logs as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
