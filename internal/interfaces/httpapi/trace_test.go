package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"httpapi.Handler.PredictToday": true,
		"httpapi.Handler.RunH2HJob":    true,
		"httpapi.RequestLogging":       false,
		"httpapi.writeError":           false,
	} {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", name, got, want)
		}
	}
}

func TestStartSpan_WithoutServerSpanIsNoop(t *testing.T) {
	t.Parallel()

	ctx, span := startSpan(context.Background(), "httpapi.Handler.PredictToday")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Fatalf("expected noop span without a parent")
	}
	if trace.SpanFromContext(ctx).SpanContext().IsValid() {
		t.Fatalf("expected no span in context")
	}
}
