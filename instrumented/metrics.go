package instrumented

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opByField      = "by_field"
	opByComparator = "by_comparator"
	opByFallible   = "by_fallible"

	resultSorted   = "sorted"
	resultUnsorted = "unsorted"
	resultError    = "error"
)

var (
	// sortCalls counts sorting calls.
	//
	// Labels:
	//   - op: by_field, by_comparator or by_fallible
	//   - has_error: "true" when the call was rejected or its comparator failed
	//
	// Usage example in dashboards:
	//   - sum(rate(flatsort_sort_calls_total{has_error="true"}[5m])) by (op)
	sortCalls = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "flatsort_sort_calls_total",
		Help: "The total number of sorting calls",
	}, []string{"op", "has_error"})

	// sortDuration tracks how long each sorting call takes, in microseconds.
	sortDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "flatsort_sort_duration_micros",
		Help: "The time it takes to sort a range, in microseconds",
		Buckets: []float64{
			1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000, 1000000,
		},
	}, []string{"op"})

	// sortSwaps accumulates record swaps, which is where the memory traffic of
	// a sort goes.
	sortSwaps = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "flatsort_sort_swaps_total",
		Help: "The total number of record swaps performed by sorting calls",
	}, []string{"op"})

	// oracleChecks counts order checks by outcome: sorted, unsorted or error.
	oracleChecks = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "flatsort_oracle_checks_total",
		Help: "The total number of sortedness checks",
	}, []string{"result"})
)

func init() {
	for _, op := range []string{opByField, opByComparator, opByFallible} {
		sortCalls.WithLabelValues(op, "true").Add(0)
		sortCalls.WithLabelValues(op, "false").Add(0)
		sortSwaps.WithLabelValues(op).Add(0)
	}

	for _, result := range []string{resultSorted, resultUnsorted, resultError} {
		oracleChecks.WithLabelValues(result).Add(0)
	}
}
