package spans

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option is a function that configures a runner.
type Option func(*runner)

// WithAttributes adds attributes to the span when it is created.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(r *runner) {
		r.sso = append(r.sso, trace.WithAttributes(attrs...))
	}
}

// WithSpanKind sets the OpenTelemetry span kind. The default is
// SpanKindInternal.
func WithSpanKind(kind trace.SpanKind) Option {
	return func(r *runner) {
		r.spanKind = kind
	}
}

// WithErrorMessage sets a prefix for the span status description when the
// wrapped function fails.
//
// Example:
//
//	err := spans.Run(ctx, "flatsort.by_field", sortFn,
//	    spans.WithErrorMessage("sort rejected"),
//	)
//	// span status: "sort rejected: {error message}"
func WithErrorMessage(description string) Option {
	return func(r *runner) {
		r.failure = description
	}
}

// WithSpanDecorator registers a function that runs on the span right after it
// starts. Decorators only run for recording spans.
func WithSpanDecorator(decorator func(span trace.Span)) Option {
	return func(r *runner) {
		r.decorate = append(r.decorate, decorator)
	}
}
