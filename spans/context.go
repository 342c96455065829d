package spans

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// contextKey is a unique type for storing values in context to avoid collisions.
type contextKey string

// TracerKey is the context key used to store the OpenTelemetry tracer.
const TracerKey contextKey = "tracer"

// WithTracer stores an OpenTelemetry tracer in the context. Run and RunValue
// only create spans when a tracer is present.
//
// Example:
//
//	ctx = spans.WithTracer(ctx, otel.Tracer("flatsort"))
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, TracerKey, tracer)
}

// TracerFromContext retrieves the OpenTelemetry tracer from the context.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) {
	if ctx == nil {
		return nil, false
	}

	tracer, ok := ctx.Value(TracerKey).(trace.Tracer)

	return tracer, ok && tracer != nil
}
