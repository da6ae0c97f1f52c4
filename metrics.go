package ormtrace

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for statement executions.
type metrics struct {
	// Statement latency histogram
	queryDuration metric.Float64Histogram
}

// newMetrics creates and registers metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	// Duration histogram with recommended buckets for database operations
	m.queryDuration, err = meter.Float64Histogram(
		"db.client.operation.duration",
		metric.WithDescription("Duration of database statements in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// recordQueryDuration records the duration of one statement execution.
func (m *metrics) recordQueryDuration(
	ctx context.Context,
	duration time.Duration,
	operation string,
	err error,
) {
	if m == nil || m.queryDuration == nil {
		return
	}

	attrs := make([]attribute.KeyValue, 0, 2)

	if operation != "" {
		attrs = append(attrs, attribute.String("db.operation", operation))
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs = append(attrs, attribute.String("status", status))

	m.queryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
