package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func parentContext() context.Context {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestTracer_StartWithoutParentIsNoop(t *testing.T) {
	tr := New("football-predictions/test", nil)

	ctx := context.Background()
	got, span := tr.Start(ctx, "usecase.PredictionService.PredictToday")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no-op span without a parent")
	}
}

func TestTracer_FilterSkipsSpans(t *testing.T) {
	tr := New("football-predictions/test", func(name string) bool { return name == "keep" })

	ctx := parentContext()
	got, span := tr.Start(ctx, "drop")
	defer span.End()
	if got != ctx {
		t.Fatalf("expected filtered span to keep the parent context")
	}
}

func TestFail_IgnoresNil(t *testing.T) {
	Fail(nil, errors.New("boom"))
	Fail(noopSpan, nil)
	Fail(noopSpan, errors.New("boom"))
}
