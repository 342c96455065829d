// Package spans runs functions inside OpenTelemetry spans taken from a tracer
// stored in the context.
//
// A span records the returned error with codes.Error and ends with codes.Ok
// otherwise. A panic marks the span, ends it, and keeps propagating. Without a
// tracer in the context the function runs bare and the gap is counted in
// flatsort_spans_without_tracer_total.
//
// Usage example:
//
//	ctx = spans.WithTracer(ctx, tracer)
//	stats, err := spans.RunValue(ctx, "flatsort.by_field",
//	    func(ctx context.Context, span trace.Span) (quicksort.Stats, error) {
//	        return sortRecords(ctx)
//	    },
//	    spans.WithAttributes(attribute.Int("records", n)),
//	)
package spans

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func newRunner(tracer trace.Tracer, spanName string, opts ...Option) *runner {
	r := &runner{
		spanName: spanName,
		spanKind: trace.SpanKindInternal,
		tracer:   tracer,
	}

	for _, option := range opts {
		if option != nil {
			option(r)
		}
	}

	return r
}

// runner holds the span settings for one call. failure is an optional prefix
// for the error status description.
type runner struct {
	spanName string
	failure  string
	spanKind trace.SpanKind
	tracer   trace.Tracer

	sso      []trace.SpanStartOption
	decorate []func(span trace.Span)
}

func (r *runner) setErrorStatus(span trace.Span, err error) {
	if len(r.failure) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%s: %s", r.failure, err.Error()))
	} else {
		span.SetStatus(codes.Error, err.Error())
	}
}

// Run executes fn inside a span named name. See the package documentation.
func Run(ctx context.Context, name string, fn func(ctx context.Context, span trace.Span) error, opts ...Option) error {
	_, err := RunValue(ctx, name, func(ctx context.Context, span trace.Span) (struct{}, error) {
		return struct{}{}, fn(ctx, span)
	}, opts...)

	return err
}

// RunValue is Run for functions that also produce a value. The value is
// returned even when fn fails.
func RunValue[T any](
	ctx context.Context, name string,
	fn func(ctx context.Context, span trace.Span) (T, error), opts ...Option,
) (T, error) {
	tracer, found := TracerFromContext(ctx)
	if !found {
		spanWithoutTracerCounter.WithLabelValues(name).Inc()

		return fn(ctx, trace.SpanFromContext(ctx))
	}

	r := newRunner(tracer, name, opts...)

	startOpts := make([]trace.SpanStartOption, 0, len(r.sso)+1)
	startOpts = append(startOpts, r.sso...)
	startOpts = append(startOpts, trace.WithSpanKind(r.spanKind))

	ctx, span := tracer.Start(ctx, r.spanName, startOpts...)
	defer span.End()

	defer func() {
		if panicked := recover(); panicked != nil {
			span.SetAttributes(attribute.Bool("panic", true))
			r.setErrorStatus(span, fmt.Errorf("panic: %v", panicked))

			panic(panicked)
		}
	}()

	if span.IsRecording() {
		for _, decorate := range r.decorate {
			if decorate != nil {
				decorate(span)
			}
		}
	}

	val, err := fn(ctx, span)
	if err != nil {
		span.RecordError(err)
		r.setErrorStatus(span, err)
	} else {
		span.SetStatus(codes.Ok, "ok")
	}

	return val, err
}
