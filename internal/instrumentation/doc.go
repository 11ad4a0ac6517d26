// Package instrumentation provides OpenTelemetry metrics and tracing for
// the assistant.
//
// Metrics are exported through the Prometheus exporter and scraped from the
// dedicated metrics server; traces can be exported to stdout (development)
// or an OTLP collector. When instrumentation is disabled every recorder is
// a no-op, so callers never need to branch on whether it is configured.
package instrumentation
