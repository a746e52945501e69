// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fix

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for fix invocations.
var (
	tracer = otel.Tracer("aleutian.access.fix")
	meter  = otel.Meter("aleutian.access.fix")
)

// Metrics for fix invocations.
var (
	fixLatency metric.Float64Histogram
	fixTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		fixLatency, err = meter.Float64Histogram(
			"access_fix_duration_seconds",
			metric.WithDescription("Duration of fix pipeline invocations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		fixTotal, err = meter.Int64Counter(
			"access_fix_invocations_total",
			metric.WithDescription("Total fix pipeline invocations by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startFixSpan creates a span for a fix invocation.
func startFixSpan(ctx context.Context, ruleID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Pipeline.Run",
		trace.WithAttributes(
			attribute.String("fix.rule_id", ruleID),
		),
	)
}

// recordFixMetrics records metrics for a completed fix invocation.
func recordFixMetrics(ctx context.Context, duration time.Duration, outcome string) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("outcome", outcome),
	)

	fixLatency.Record(ctx, duration.Seconds(), attrs)
	fixTotal.Add(ctx, 1, attrs)
}
