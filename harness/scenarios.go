package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"facette.io/natsort"
	"github.com/amp-labs/flatsort/compare"
	"github.com/amp-labs/flatsort/datasets"
	"github.com/amp-labs/flatsort/instrumented"
	"github.com/amp-labs/flatsort/logger"
	"github.com/amp-labs/flatsort/records"
	"github.com/amp-labs/flatsort/simultaneously"
	"github.com/amp-labs/flatsort/sortable"
)

var ErrMismatch = errors.New("unexpected sort result")

const scenarioWorkers = 4

// Scenario is one fixed input with a known expected outcome.
type Scenario struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result is the outcome of one scenario. Err is nil when it passed.
type Result struct {
	Name string
	Err  error
}

// Report collects scenario results in natural name order.
type Report struct {
	Results []Result
	Passed  int
	Failed  int
}

// OK reports whether every scenario passed.
func (r Report) OK() bool {
	return r.Failed == 0
}

var reference = []float32{3, 0, 5, 9, 2, 1, 7} //nolint:gochecknoglobals

// widen spreads reference over records of eleSize slots, key first and the
// remaining slots zero.
func widen(eleSize int) []float32 {
	buf := make([]float32, len(reference)*eleSize)
	for i, v := range reference {
		buf[i*eleSize] = v
	}

	return buf
}

func byField(eleSize int, rng *records.Range, want []float32) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		buf := widen(eleSize)

		r := records.All(len(reference))
		if rng != nil {
			r = *rng
		}

		if _, err := instrumented.ByField(ctx, buf, eleSize, 0, r); err != nil {
			return err
		}

		return expect(buf, want)
	}
}

func expect[T comparable](got, want []T) error {
	if !slices.Equal(got, want) {
		return fmt.Errorf("%w: got %v, want %v", ErrMismatch, got, want)
	}

	return nil
}

// sortWrapped sorts reference converted to a sortable wrapper type.
func sortWrapped[T interface {
	records.Number
	sortable.Sortable[T]
}](ctx context.Context,
) error {
	buf := make([]T, len(reference))
	for i, v := range reference {
		buf[i] = T(v)
	}

	if _, err := instrumented.ByComparator(ctx, buf, sortable.Comparator[T](), records.All(len(buf))); err != nil {
		return err
	}

	return expect(buf, []T{0, 1, 2, 3, 5, 7, 9})
}

// Scenarios returns the reference scenarios. Each call builds fresh buffers.
func Scenarios() []Scenario {
	partial := records.Span(3, 6)

	return []Scenario{
		{
			Name: "eleSize1-full",
			Run:  byField(1, nil, []float32{0, 1, 2, 3, 5, 7, 9}),
		},
		{
			Name: "eleSize1-partial",
			Run:  byField(1, &partial, []float32{3, 0, 5, 1, 2, 9, 7}),
		},
		{
			Name: "eleSize2-full",
			Run:  byField(2, nil, []float32{0, 0, 1, 0, 2, 0, 3, 0, 5, 0, 7, 0, 9, 0}),
		},
		{
			Name: "eleSize2-partial",
			Run:  byField(2, &partial, []float32{3, 0, 0, 0, 5, 0, 1, 0, 2, 0, 9, 0, 7, 0}),
		},
		{
			Name: "eleSize3-full",
			Run: byField(3, nil,
				[]float32{0, 0, 0, 1, 0, 0, 2, 0, 0, 3, 0, 0, 5, 0, 0, 7, 0, 0, 9, 0, 0}),
		},
		{
			Name: "eleSize3-partial",
			Run: byField(3, &partial,
				[]float32{3, 0, 0, 0, 0, 0, 5, 0, 0, 1, 0, 0, 2, 0, 0, 9, 0, 0, 7, 0, 0}),
		},
		{
			Name: "inverted-comparator",
			Run: func(ctx context.Context) error {
				buf := slices.Clone(reference)
				cmp := compare.Invert(compare.Ascending[float32])

				if _, err := instrumented.ByComparator(ctx, buf, cmp, records.All(len(buf))); err != nil {
					return err
				}

				return expect(buf, []float32{9, 7, 5, 3, 2, 1, 0})
			},
		},
		{
			Name: "sortable-wrapper",
			Run: func(ctx context.Context) error {
				return errors.Join(
					sortWrapped[sortable.Float32](ctx),
					sortWrapped[sortable.Float64](ctx),
					sortWrapped[sortable.Int](ctx),
				)
			},
		},
		{
			Name: "points-dataset",
			Run: func(ctx context.Context) error {
				buf := datasets.Points()
				rng := records.All(len(buf))

				if _, err := instrumented.ByComparator(ctx, buf, compare.Ascending[float32], rng); err != nil {
					return err
				}

				ok, err := instrumented.IsSorted(ctx, buf, compare.Ascending[float32], rng)
				if err != nil {
					return err
				}

				if !ok {
					return fmt.Errorf("%w: points dataset is not in ascending order", ErrMismatch)
				}

				return nil
			},
		},
	}
}

// RunScenarios runs every scenario, at most scenarioWorkers at a time, and
// reports each outcome. Failures are logged; the returned Report is the source
// of truth.
func RunScenarios(ctx context.Context) Report {
	scenarios := Scenarios()
	slices.SortFunc(scenarios, func(a, b Scenario) int {
		switch {
		case natsort.Compare(a.Name, b.Name):
			return -1
		case natsort.Compare(b.Name, a.Name):
			return 1
		default:
			return 0
		}
	})

	results, err := simultaneously.Map(ctx, scenarioWorkers, scenarios,
		func(ctx context.Context, sc Scenario) (Result, error) {
			err := sc.Run(logger.With(ctx, "scenario", sc.Name))
			if err != nil {
				logger.Get(ctx).Error("scenario failed", "scenario", sc.Name, "error", err)
			}

			return Result{Name: sc.Name, Err: err}, nil
		})
	if err != nil {
		// A panicking scenario or a cancelled context; every scenario fails.
		results = make([]Result, len(scenarios))
		for i, sc := range scenarios {
			results[i] = Result{Name: sc.Name, Err: err}
		}
	}

	report := Report{Results: results}

	for _, r := range results {
		if r.Err != nil {
			report.Failed++
		} else {
			report.Passed++
		}
	}

	return report
}
