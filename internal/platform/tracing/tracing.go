// Package tracing wraps the global OpenTelemetry tracer so internal layers
// only ever create child spans of an inbound request or job.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var noopSpan = trace.SpanFromContext(context.Background())

type Tracer struct {
	name   string
	filter func(spanName string) bool
}

// New returns a tracer for the instrumentation scope. filter, when set,
// decides which span names are worth recording.
func New(instrumentation string, filter func(spanName string) bool) *Tracer {
	return &Tracer{name: instrumentation, filter: filter}
}

// Start opens a child span. Without a sampled parent (health checks, unit
// tests) it returns a no-op span so helpers never start root traces.
func (t *Tracer) Start(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(spanName) == "" {
		return ctx, noopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if t.filter != nil && !t.filter(spanName) {
		return ctx, noopSpan
	}
	return otel.Tracer(t.name).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// Fail marks span as errored. A nil err is ignored.
func Fail(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
