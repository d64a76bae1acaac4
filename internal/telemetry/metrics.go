package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics are the engine's counters. A nil *Metrics records nothing.
type Metrics struct {
	requests    metric.Int64Counter
	truncations metric.Int64Counter
	duration    metric.Float64Histogram
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(ScopeName)

	requests, err := meter.Int64Counter("tinyweb.requests",
		metric.WithDescription("Connections served, by method and outcome"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	truncations, err := meter.Int64Counter("tinyweb.truncations",
		metric.WithDescription("Fields cut to their fixed capacity"),
		metric.WithUnit("{field}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("tinyweb.serve.duration",
		metric.WithDescription("Time from receive to close"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &Metrics{requests: requests, truncations: truncations, duration: duration}, nil
}

func (m *Metrics) Served(ctx context.Context, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("tinyweb.outcome", outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
}

func (m *Metrics) Truncated(ctx context.Context, field string) {
	if m == nil {
		return
	}
	m.truncations.Add(ctx, 1, metric.WithAttributes(attribute.String("tinyweb.field", field)))
}
