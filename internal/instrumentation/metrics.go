package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrIntent    = "intent"
	attrStatus    = "status"
	attrService   = "service"
	attrOperation = "operation"
)

// Metrics provides methods for recording observability metrics. All record
// methods are safe to call on a nil receiver, which acts as a no-op.
type Metrics struct {
	turnsTotal           metric.Int64Counter
	turnDuration         metric.Float64Histogram
	providerCallsTotal   metric.Int64Counter
	providerCallDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.turnsTotal, err = meter.Int64Counter(
		"chat_turns_total",
		metric.WithDescription("Total number of handled chat turns"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_turns_total counter: %w", err)
	}

	m.turnDuration, err = meter.Float64Histogram(
		"chat_turn_duration_seconds",
		metric.WithDescription("Chat turn duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_turn_duration_seconds histogram: %w", err)
	}

	m.providerCallsTotal, err = meter.Int64Counter(
		"provider_calls_total",
		metric.WithDescription("Total number of external provider calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_calls_total counter: %w", err)
	}

	m.providerCallDuration, err = meter.Float64Histogram(
		"provider_call_duration_seconds",
		metric.WithDescription("External provider call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_call_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordTurn records a handled chat turn with intent, status, and duration.
func (m *Metrics) RecordTurn(ctx context.Context, intent, status string, duration time.Duration) {
	if m == nil || m.turnsTotal == nil || m.turnDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrIntent, intent),
		attribute.String(attrStatus, status),
	}

	m.turnsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.turnDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordProviderCall records an external provider call.
//
// Parameters:
//   - service: provider name ("llm" or "graph")
//   - operation: operation type (complete, create_event, list_events, ...)
//   - status: result status ("success" or "error")
//   - duration: time taken for the call
func (m *Metrics) RecordProviderCall(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.providerCallsTotal == nil || m.providerCallDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.providerCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.providerCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
