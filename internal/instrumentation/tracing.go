package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the schedassist package.
const TracerName = "github.com/teemow/schedassist"

// Span attribute keys for operations.
const (
	// SpanAttrIntent is the classified chat intent attribute.
	SpanAttrIntent = "chat.intent"

	// SpanAttrService is the external provider name attribute.
	SpanAttrService = "provider.service"

	// SpanAttrOperation is the provider operation attribute.
	SpanAttrOperation = "provider.operation"
)

// StartTurnSpan starts a span for one chat turn.
// The caller is responsible for ending the span with defer span.End().
func StartTurnSpan(ctx context.Context, intent string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "chat.turn",
		trace.WithAttributes(attribute.String(SpanAttrIntent, intent)),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartProviderSpan starts a span for an external provider call.
func StartProviderSpan(ctx context.Context, service, operation string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, service+"."+operation,
		trace.WithAttributes(
			attribute.String(SpanAttrService, service),
			attribute.String(SpanAttrOperation, operation),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
