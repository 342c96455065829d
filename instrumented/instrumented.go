// Package instrumented wraps the sorting engine and the order oracle with
// tracing, metrics and logging.
//
// The engine itself takes no context and has no side effects beyond the
// buffer; these wrappers are what long-running programs call instead. Each
// call runs inside a span named "flatsort.<op>" (when a tracer was stored with
// spans.WithTracer), updates the flatsort_* prometheus metrics, and logs a
// debug line through logger.Get(ctx).
package instrumented

import (
	"context"
	"strconv"
	"time"

	"github.com/amp-labs/flatsort/compare"
	"github.com/amp-labs/flatsort/logger"
	"github.com/amp-labs/flatsort/quicksort"
	"github.com/amp-labs/flatsort/records"
	"github.com/amp-labs/flatsort/sorted"
	"github.com/amp-labs/flatsort/spans"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ByField runs quicksort.ByFieldIn and returns the work it did. A
// quicksort.WithStats among opts is ignored in favor of the returned Stats.
func ByField[T records.Number](
	ctx context.Context, buf []T, eleSize, field int, rng records.Range, opts ...quicksort.Option,
) (quicksort.Stats, error) {
	return run(ctx, opByField, rng, eleSize, func(stats *quicksort.Stats) error {
		return quicksort.ByFieldIn(buf, eleSize, field, rng, withStats(opts, stats)...)
	})
}

// ByComparator runs quicksort.ByComparatorIn and returns the work it did.
func ByComparator[T records.Number](
	ctx context.Context, buf []T, cmp compare.Comparator[T], rng records.Range, opts ...quicksort.Option,
) (quicksort.Stats, error) {
	return run(ctx, opByComparator, rng, 1, func(stats *quicksort.Stats) error {
		return quicksort.ByComparatorIn(buf, cmp, rng, withStats(opts, stats)...)
	})
}

// ByFallible runs quicksort.ByFallibleIn and returns the work it did, including
// the work done before a comparator failure.
func ByFallible[T records.Number](
	ctx context.Context, buf []T, cmp compare.Fallible[T], rng records.Range, opts ...quicksort.Option,
) (quicksort.Stats, error) {
	return run(ctx, opByFallible, rng, 1, func(stats *quicksort.Stats) error {
		return quicksort.ByFallibleIn(buf, cmp, rng, withStats(opts, stats)...)
	})
}

// IsSorted runs sorted.Check and counts the outcome.
func IsSorted[T any](ctx context.Context, seq []T, cmp compare.Comparator[T], rng records.Range) (bool, error) {
	ok, err := sorted.Check(seq, cmp, rng)
	observeCheck(ctx, ok, err)

	return ok, err
}

// RecordsByField runs sorted.RecordsByField and counts the outcome.
func RecordsByField[T records.Number](
	ctx context.Context, buf []T, eleSize, field int, rng records.Range,
) (bool, error) {
	ok, err := sorted.RecordsByField(buf, eleSize, field, rng)
	observeCheck(ctx, ok, err)

	return ok, err
}

func withStats(opts []quicksort.Option, stats *quicksort.Stats) []quicksort.Option {
	return append(opts[:len(opts):len(opts)], quicksort.WithStats(stats))
}

func observeCheck(ctx context.Context, ok bool, err error) {
	result := resultUnsorted

	switch {
	case err != nil:
		result = resultError
	case ok:
		result = resultSorted
	}

	oracleChecks.WithLabelValues(result).Inc()

	if result != resultSorted {
		logger.Get(ctx).Debug("order check failed", "result", result, "error", err)
	}
}

func run(
	ctx context.Context, op string, rng records.Range, eleSize int, sortFn func(stats *quicksort.Stats) error,
) (quicksort.Stats, error) {
	return spans.RunValue(ctx, "flatsort."+op, func(ctx context.Context, span trace.Span) (quicksort.Stats, error) {
		var stats quicksort.Stats

		start := time.Now()
		err := sortFn(&stats)
		elapsed := time.Since(start)

		sortCalls.WithLabelValues(op, strconv.FormatBool(err != nil)).Inc()
		sortDuration.WithLabelValues(op).Observe(float64(elapsed.Microseconds()))
		sortSwaps.WithLabelValues(op).Add(float64(stats.Swaps))

		span.SetAttributes(
			attribute.Int("comparisons", stats.Comparisons),
			attribute.Int("swaps", stats.Swaps),
			attribute.Int("max_depth", stats.MaxDepth),
			attribute.Int("heapsort_fallbacks", stats.HeapsortFallbacks),
		)

		log := logger.Get(ctx).With("op", op, "range", rng, "elapsed", elapsed)

		if err != nil {
			log.Debug("sort failed", "error", err)
		} else {
			log.Debug("sorted records",
				"comparisons", stats.Comparisons,
				"swaps", stats.Swaps,
				"max_depth", stats.MaxDepth)
		}

		return stats, err
	},
		spans.WithAttributes(
			attribute.Int("records", rng.Len()),
			attribute.Int("ele_size", eleSize),
		),
		spans.WithErrorMessage(op),
	)
}
