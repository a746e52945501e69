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
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianAccess/pkg/logging"
	"github.com/AleutianAI/AleutianAccess/services/access/config"
	"github.com/AleutianAI/AleutianAccess/services/access/diagnostic"
	"github.com/AleutianAI/AleutianAccess/services/access/lint"
	"github.com/AleutianAI/AleutianAccess/services/access/lsp"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold).Sprint("error")
	warnLabel  = color.New(color.FgYellow).Sprint("warning")
	pathColor  = color.New(color.FgCyan, color.Underline)
)

// runCheck runs the engine once against a root and prints the mapped
// findings. Exit status 1 when any error-severity finding exists, so
// CI can gate on it.
func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(logLevel),
		Service: "access-check",
		JSON:    logJSON,
	})

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	runner := lint.NewRunner(
		lint.WithEngineConfig(cfg.EngineConfig()),
		lint.WithLogger(logger),
	)

	results, err := runner.Run(context.Background(), root)
	if err != nil {
		return err
	}

	mapped := diagnostic.MapResults(results)
	if len(mapped) == 0 {
		fmt.Println("No accessibility findings.")
		return nil
	}

	paths := make([]string, 0, len(mapped))
	for path := range mapped {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	errorCount := 0
	total := 0
	for _, path := range paths {
		pathColor.Println(path)
		for _, d := range mapped[path] {
			label := warnLabel
			if d.Severity == lsp.SeverityError {
				label = errorLabel
				errorCount++
			}
			total++
			// Positions print 1-based for humans.
			fmt.Printf("  %d:%d  %s  %s  %s\n",
				d.Range.Start.Line+1, d.Range.Start.Character+1,
				label, d.Message, color.New(color.Faint).Sprint(d.Code))
		}
		fmt.Println()
	}

	fmt.Printf("%d findings (%d errors) in %d files\n", total, errorCount, len(paths))
	if errorCount > 0 {
		return fmt.Errorf("%d accessibility errors", errorCount)
	}
	return nil
}
