package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SpanIDs returns the hex trace and span ids of the span active in ctx.
func SpanIDs(ctx context.Context) (traceID string, spanID string, ok bool) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", "", false
	}

	return sc.TraceID().String(), sc.SpanID().String(), true
}

// WithContext tags logger with the trace and span ids carried by ctx, if any.
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID, spanID, ok := SpanIDs(ctx)
	if !ok {
		return logger
	}

	return logger.With(zap.String("trace_id", traceID), zap.String("span_id", spanID))
}
