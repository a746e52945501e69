// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for engine runs.
var (
	tracer = otel.Tracer("aleutian.access.lint")
	meter  = otel.Meter("aleutian.access.lint")
)

// Metrics for engine runs.
var (
	runLatency    metric.Float64Histogram
	runTotal      metric.Int64Counter
	findingsFound metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runLatency, err = meter.Float64Histogram(
			"access_lint_duration_seconds",
			metric.WithDescription("Duration of accessibility engine runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runTotal, err = meter.Int64Counter(
			"access_lint_runs_total",
			metric.WithDescription("Total number of accessibility engine runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		findingsFound, err = meter.Int64Histogram(
			"access_lint_findings",
			metric.WithDescription("Number of findings per engine run"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startRunSpan creates a span for an engine run.
func startRunSpan(ctx context.Context, command, root string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Runner.Run",
		trace.WithAttributes(
			attribute.String("lint.command", command),
			attribute.String("lint.root", root),
		),
	)
}

// setRunSpanResult sets the result attributes on a run span.
func setRunSpanResult(span trace.Span, files, findings int) {
	span.SetAttributes(
		attribute.Int("lint.file_count", files),
		attribute.Int("lint.finding_count", findings),
	)
}

// recordRunMetrics records metrics for an engine run.
func recordRunMetrics(ctx context.Context, duration time.Duration, findings int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("success", success),
	)

	runLatency.Record(ctx, duration.Seconds(), attrs)
	runTotal.Add(ctx, 1, attrs)

	if success {
		findingsFound.Record(ctx, int64(findings))
	}
}
