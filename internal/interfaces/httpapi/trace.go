package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/football-predictions/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Only handler spans are recorded; middleware and response helpers would
// just add noise under the otelhttp server span.
var apiTracer = tracing.New("football-predictions/internal/interfaces/httpapi", shouldCreateHTTPAPISpan)

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
