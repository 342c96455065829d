package quicksort_test

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/amp-labs/flatsort/compare"
	"github.com/amp-labs/flatsort/datasets"
	sorterrors "github.com/amp-labs/flatsort/errors"
	"github.com/amp-labs/flatsort/quicksort"
	"github.com/amp-labs/flatsort/records"
	"github.com/amp-labs/flatsort/sortable"
	"github.com/amp-labs/flatsort/sorted"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var list = []float32{3, 0, 5, 9, 2, 1, 7}

func cmp(a, b float32) int {
	if a > b {
		return 1
	}

	if a < b {
		return -1
	}

	return 0
}

func cmpInv(a, b float32) int {
	if a > b {
		return -1
	}

	if a < b {
		return 1
	}

	return 0
}

func clone[T any](s []T) []T {
	return append([]T(nil), s...)
}

func TestByField_ReferenceScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []float32
		eleSize int
		rng     *records.Range
		want    []float32
	}{
		{
			name:    "eleSize 1 full sort",
			input:   list,
			eleSize: 1,
			want:    []float32{0, 1, 2, 3, 5, 7, 9},
		},
		{
			name:    "eleSize 1 partial sort",
			input:   list,
			eleSize: 1,
			rng:     &records.Range{Begin: 3, End: 6},
			want:    []float32{3, 0, 5, 1, 2, 9, 7},
		},
		{
			name:    "eleSize 2 full sort",
			input:   []float32{3, 0, 0, 0, 5, 0, 9, 0, 2, 0, 1, 0, 7, 0},
			eleSize: 2,
			want:    []float32{0, 0, 1, 0, 2, 0, 3, 0, 5, 0, 7, 0, 9, 0},
		},
		{
			name:    "eleSize 2 partial sort",
			input:   []float32{3, 0, 0, 0, 5, 0, 9, 0, 2, 0, 1, 0, 7, 0},
			eleSize: 2,
			rng:     &records.Range{Begin: 3, End: 6},
			want:    []float32{3, 0, 0, 0, 5, 0, 1, 0, 2, 0, 9, 0, 7, 0},
		},
		{
			name:    "eleSize 3 full sort",
			input:   []float32{3, 0, 0, 0, 0, 0, 5, 0, 0, 9, 0, 0, 2, 0, 0, 1, 0, 0, 7, 0, 0},
			eleSize: 3,
			want:    []float32{0, 0, 0, 1, 0, 0, 2, 0, 0, 3, 0, 0, 5, 0, 0, 7, 0, 0, 9, 0, 0},
		},
		{
			name:    "eleSize 3 partial sort",
			input:   []float32{3, 0, 0, 0, 0, 0, 5, 0, 0, 9, 0, 0, 2, 0, 0, 1, 0, 0, 7, 0, 0},
			eleSize: 3,
			rng:     &records.Range{Begin: 3, End: 6},
			want:    []float32{3, 0, 0, 0, 0, 0, 5, 0, 0, 1, 0, 0, 2, 0, 0, 9, 0, 0, 7, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := clone(tt.input)

			var err error
			if tt.rng == nil {
				err = quicksort.ByField(buf, tt.eleSize, 0)
			} else {
				err = quicksort.ByFieldIn(buf, tt.eleSize, 0, *tt.rng)
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, buf)
		})
	}
}

func TestByComparator_ReferenceScenarios(t *testing.T) {
	t.Parallel()

	t.Run("default comparator full sort", func(t *testing.T) {
		t.Parallel()

		arr := clone(list)
		require.NoError(t, quicksort.Ascending(arr))

		assert.Equal(t, []float32{0, 1, 2, 3, 5, 7, 9}, arr)
		assert.True(t, sorted.IsSorted(arr, cmp))
	})

	t.Run("default comparator partial sort", func(t *testing.T) {
		t.Parallel()

		arr := clone(list)
		require.NoError(t, quicksort.ByComparatorIn(arr, compare.Ascending[float32], records.Span(3, 6)))

		assert.Equal(t, []float32{3, 0, 5, 1, 2, 9, 7}, arr)
		assert.True(t, sorted.IsSorted(arr[3:6], cmp))
		assert.True(t, sorted.IsSortedIn(arr, cmp, records.Span(3, 6)))
	})

	t.Run("inverted comparator full sort", func(t *testing.T) {
		t.Parallel()

		arr := clone(list)
		require.NoError(t, quicksort.ByComparator(arr, cmpInv))

		assert.Equal(t, []float32{9, 7, 5, 3, 2, 1, 0}, arr)
		assert.True(t, sorted.IsSorted(arr, cmpInv))
		assert.False(t, sorted.IsSorted(arr, cmp))
	})

	t.Run("points", func(t *testing.T) {
		t.Parallel()

		points := datasets.Points()
		require.NoError(t, quicksort.ByComparator(points, cmp))

		assert.True(t, sorted.IsSorted(points, cmp))
		assert.ElementsMatch(t, datasets.Points(), points)
	})
}

func TestByField_Properties(t *testing.T) {
	t.Parallel()

	sizes := []int{0, 1, 2, 3, 11, 12, 13, 64, 500}
	strides := []int{1, 2, 3, 5}

	for _, kind := range datasets.Kinds() {
		for _, n := range sizes {
			for _, eleSize := range strides {
				name := fmt.Sprintf("%s/n=%d/eleSize=%d", kind, n, eleSize)

				t.Run(name, func(t *testing.T) {
					t.Parallel()

					seed := uint64(n*31 + eleSize)
					original := datasets.Generate(kind, n, eleSize, seed)
					rng := randomRange(n, seed)

					buf := clone(original)
					require.NoError(t, quicksort.ByFieldIn(buf, eleSize, 0, rng))

					ok, err := sorted.RecordsByField(buf, eleSize, 0, rng)
					require.NoError(t, err)
					assert.True(t, ok, "range %s not sorted", rng)

					assertLocality(t, original, buf, eleSize, rng)
					assertCohesion(t, original, buf, eleSize, rng)

					again := clone(buf)
					require.NoError(t, quicksort.ByFieldIn(again, eleSize, 0, rng))
					assert.Equal(t, buf, again)
				})
			}
		}
	}
}

func TestByField_SortedInputIsUntouched(t *testing.T) {
	t.Parallel()

	const (
		n       = 40
		eleSize = 2
	)

	// Keys 0..3, ten records each, already in order; the payload is the
	// record's position, so any reshuffle among equal keys shows up.
	buf := make([]float64, 0, n*eleSize)
	for i := range n {
		buf = append(buf, float64(i/10), float64(i))
	}

	original := clone(buf)

	for _, rng := range []records.Range{records.All(n), records.Span(5, 35), records.Span(10, 20)} {
		var stats quicksort.Stats
		require.NoError(t, quicksort.ByFieldIn(buf, eleSize, 0, rng, quicksort.WithStats(&stats)))

		assert.Equal(t, original, buf, "range %s", rng)
		assert.Zero(t, stats.Swaps, "range %s", rng)
		assert.Equal(t, rng.Len()-1, stats.Comparisons, "range %s", rng)
	}

	equal := datasets.Generate(datasets.Equal, 500, 3, 1)
	before := clone(equal)
	require.NoError(t, quicksort.ByField(equal, 3, 0))
	assert.Equal(t, before, equal)
}

func TestByComparator_SortedInputIsUntouched(t *testing.T) {
	t.Parallel()

	buf := []float64{0, math.Copysign(0, -1), 0, 1, 1, 2}
	before := clone(buf)

	var stats quicksort.Stats
	require.NoError(t, quicksort.ByComparator(buf, compare.Ascending[float64], quicksort.WithStats(&stats)))

	for i := range buf {
		assert.Equal(t, math.Signbit(before[i]), math.Signbit(buf[i]), "index %d", i)
	}

	assert.Zero(t, stats.Swaps)
}

func TestByField_KeyFieldOtherThanFirst(t *testing.T) {
	t.Parallel()

	buf := []int64{
		10, 3, 100,
		20, 1, 200,
		30, 2, 300,
	}

	require.NoError(t, quicksort.ByField(buf, 3, 1))

	assert.Equal(t, []int64{
		20, 1, 200,
		30, 2, 300,
		10, 3, 100,
	}, buf)
}

func TestByField_GenericElementTypes(t *testing.T) {
	t.Parallel()

	bytesBuf := []uint8{9, 1, 8, 2, 7, 3}
	require.NoError(t, quicksort.ByField(bytesBuf, 1, 0))
	assert.Equal(t, []uint8{1, 2, 3, 7, 8, 9}, bytesBuf)

	ints := []int32{-5, 10, 0, -7}
	require.NoError(t, quicksort.ByField(ints, 2, 0))
	assert.Equal(t, []int32{-5, 10, 0, -7}, ints)

	wrapped := []sortable.Float32{3, 0, 5, 9, 2, 1, 7}
	require.NoError(t, quicksort.ByComparator(wrapped, sortable.Comparator[sortable.Float32]()))
	assert.Equal(t, []sortable.Float32{0, 1, 2, 3, 5, 7, 9}, wrapped)
}

func TestByComparator_InversionReversesOrder(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(11, 12)) //nolint:gosec
	perm := r.Perm(257)

	asc := make([]float64, len(perm))
	for i, v := range perm {
		asc[i] = float64(v)
	}

	desc := clone(asc)

	require.NoError(t, quicksort.ByComparator(asc, compare.Ascending[float64]))
	require.NoError(t, quicksort.ByComparator(desc, compare.Invert[float64](compare.Ascending[float64])))

	for i := range asc {
		assert.InDelta(t, asc[i], desc[len(desc)-1-i], 0)
	}
}

func TestByField_RejectsBeforeMutating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		eleSize int
		field   int
		rng     records.Range
		target  error
	}{
		{name: "zero stride", eleSize: 0, field: 0, rng: records.All(0), target: sorterrors.ErrInvalidArgument},
		{name: "negative stride", eleSize: -2, field: 0, rng: records.All(0), target: sorterrors.ErrInvalidArgument},
		{name: "field too large", eleSize: 2, field: 2, rng: records.All(4), target: sorterrors.ErrInvalidArgument},
		{name: "negative field", eleSize: 2, field: -1, rng: records.All(4), target: sorterrors.ErrInvalidArgument},
		{name: "partial record", eleSize: 3, field: 0, rng: records.All(2), target: sorterrors.ErrInvalidArgument},
		{name: "inverted range", eleSize: 2, field: 0, rng: records.Span(3, 1), target: sorterrors.ErrRange},
		{name: "negative begin", eleSize: 2, field: 0, rng: records.Span(-1, 2), target: sorterrors.ErrRange},
		{name: "end past count", eleSize: 2, field: 0, rng: records.Span(0, 5), target: sorterrors.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := []float32{4, 40, 3, 30, 2, 20, 1, 10}
			before := clone(buf)

			stats := quicksort.Stats{Swaps: -1}
			err := quicksort.ByFieldIn(buf, tt.eleSize, tt.field, tt.rng, quicksort.WithStats(&stats))

			require.ErrorIs(t, err, tt.target)
			assert.Equal(t, before, buf)
			assert.Equal(t, quicksort.Stats{}, stats)
		})
	}
}

func TestByComparator_RejectsBeforeMutating(t *testing.T) {
	t.Parallel()

	buf := clone(list)

	err := quicksort.ByComparator[float32](buf, nil)
	require.ErrorIs(t, err, sorterrors.ErrTypeInvalid)

	err = quicksort.ByComparatorIn(buf, cmp, records.Span(2, 8))
	require.ErrorIs(t, err, sorterrors.ErrRange)

	err = quicksort.ByFallible[float32](buf, nil)
	require.ErrorIs(t, err, sorterrors.ErrTypeInvalid)

	err = quicksort.ByFallibleIn(buf, compare.Infallible[float32](cmp), records.Span(5, 4))
	require.ErrorIs(t, err, sorterrors.ErrRange)

	assert.Equal(t, list, buf)
}

func TestByFallible(t *testing.T) {
	t.Parallel()

	t.Run("sorts when the comparator never fails", func(t *testing.T) {
		t.Parallel()

		buf := clone(list)
		require.NoError(t, quicksort.ByFallible(buf, compare.Infallible[float32](cmp)))
		assert.Equal(t, []float32{0, 1, 2, 3, 5, 7, 9}, buf)
	})

	t.Run("first error aborts the sort", func(t *testing.T) {
		t.Parallel()

		errNaN := errors.New("nan key") //nolint:err113

		calls := 0
		failing := func(a, b float64) (int, error) {
			calls++

			if math.IsNaN(a) || math.IsNaN(b) {
				return 0, errNaN
			}

			return compare.Ascending(a, b), nil
		}

		original := datasets.Generate(datasets.Random, 200, 1, 5)
		original[117] = math.NaN()
		buf := clone(original)

		var stats quicksort.Stats
		err := quicksort.ByFallible(buf, failing, quicksort.WithStats(&stats))

		require.ErrorIs(t, err, sorterrors.ErrComparator)
		require.ErrorIs(t, err, errNaN)
		assert.Equal(t, calls, stats.Comparisons)
		assertSameValues(t, original, buf)
	})
}

func TestByComparator_PanicPropagates(t *testing.T) {
	t.Parallel()

	original := datasets.Generate(datasets.Random, 100, 1, 8)
	buf := clone(original)

	calls := 0
	exploding := func(a, b float64) int {
		calls++
		if calls == 50 {
			panic("comparator exploded")
		}

		return compare.Ascending(a, b)
	}

	assert.PanicsWithValue(t, "comparator exploded", func() {
		_ = quicksort.ByComparator(buf, exploding)
	})

	assertSameValues(t, original, buf)
}

func TestByComparator_InconsistentComparatorDoesNotCrash(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 4)) //nolint:gosec
	random := func(_, _ float64) int { return r.IntN(3) - 1 }

	for _, n := range []int{2, 13, 100, 1000} {
		original := datasets.Generate(datasets.Random, n, 1, uint64(n))
		buf := clone(original)

		var err error

		require.NotPanics(t, func() {
			err = quicksort.ByComparator(buf, random)
		})
		require.NoError(t, err)

		assertSameValues(t, original, buf)
	}
}

func TestByField_NaNKeysDoNotCrash(t *testing.T) {
	t.Parallel()

	original := datasets.Generate(datasets.Random, 300, 2, 21)
	for i := 0; i < len(original); i += 14 {
		original[i] = math.NaN()
	}

	buf := clone(original)
	require.NoError(t, quicksort.ByField(buf, 2, 0))
	assertCohesion(t, original, buf, 2, records.All(300))
}

func TestByField_RecursionDepthIsLogarithmic(t *testing.T) {
	t.Parallel()

	const n = 1 << 16

	for _, kind := range []datasets.Kind{datasets.Sorted, datasets.Reversed, datasets.Equal, datasets.OrganPipe} {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			buf := datasets.Generate(kind, n, 1, 1)

			var stats quicksort.Stats
			require.NoError(t, quicksort.ByField(buf, 1, 0, quicksort.WithStats(&stats)))

			ok, err := sorted.RecordsByField(buf, 1, 0, records.All(n))
			require.NoError(t, err)
			assert.True(t, ok)

			assert.LessOrEqual(t, stats.MaxDepth, bits.Len(uint(n)))
			assert.Positive(t, stats.Comparisons)
			assert.Less(t, stats.Comparisons, 8*n*bits.Len(uint(n)), "comparisons should stay O(n log n)")
		})
	}
}

func TestByField_InsertionThreshold(t *testing.T) {
	t.Parallel()

	// Every permutation of up to seven distinct keys, with partitioning forced
	// down to two-record ranges and with the default cutoff.
	for n := 0; n <= 7; n++ {
		for _, threshold := range []int{0, 1, 2, quicksort.DefaultInsertionThreshold} {
			permutations(n, func(p []int) {
				buf := make([]float64, 2*n)
				for i, v := range p {
					buf[2*i] = float64(v)
					buf[2*i+1] = float64(-v)
				}

				require.NoError(t, quicksort.ByField(buf, 2, 0, quicksort.WithInsertionThreshold(threshold)))

				for i := range n {
					require.InDelta(t, float64(i), buf[2*i], 0, "perm %v threshold %d", p, threshold)
					require.InDelta(t, float64(-i), buf[2*i+1], 0, "perm %v threshold %d", p, threshold)
				}
			})
		}
	}
}

func TestStats_Add(t *testing.T) {
	t.Parallel()

	total := quicksort.Stats{Comparisons: 1, Swaps: 2, MaxDepth: 3}
	total.Add(quicksort.Stats{Comparisons: 10, Swaps: 20, MaxDepth: 2, HeapsortFallbacks: 1})

	assert.Equal(t, quicksort.Stats{Comparisons: 11, Swaps: 22, MaxDepth: 3, HeapsortFallbacks: 1}, total)
}

func randomRange(n int, seed uint64) records.Range {
	if n == 0 {
		return records.All(0)
	}

	r := rand.New(rand.NewPCG(seed, 99)) //nolint:gosec
	if r.IntN(3) == 0 {
		return records.All(n)
	}

	a, b := r.IntN(n+1), r.IntN(n+1)

	return records.Span(min(a, b), max(a, b))
}

func assertLocality(t *testing.T, before, after []float64, eleSize int, rng records.Range) {
	t.Helper()

	lo, hi := rng.Begin*eleSize, rng.End*eleSize

	assert.Equal(t, before[:lo], after[:lo], "prefix before %s changed", rng)
	assert.Equal(t, before[hi:], after[hi:], "suffix after %s changed", rng)
}

// assertCohesion relies on datasets payload fields holding the original record
// index: every record in rng must still carry the key it started with.
func assertCohesion(t *testing.T, before, after []float64, eleSize int, rng records.Range) {
	t.Helper()

	if eleSize == 1 {
		assertSameValues(t, before[rng.Begin:rng.End], after[rng.Begin:rng.End])

		return
	}

	seen := make(map[int]bool, rng.Len())

	for r := rng.Begin; r < rng.End; r++ {
		rec := records.Record(after, eleSize, r)
		origin := int(rec[1])

		require.True(t, rng.Contains(origin), "record %d came from outside %s", r, rng)
		require.False(t, seen[origin], "record %d duplicated", origin)

		seen[origin] = true

		want := records.Record(before, eleSize, origin)
		if math.IsNaN(want[0]) {
			assert.True(t, math.IsNaN(rec[0]))
		} else {
			assert.InDelta(t, want[0], rec[0], 0, "key of record %d scrambled", origin)
		}

		for f := 2; f < eleSize; f++ {
			assert.InDelta(t, float64(origin), rec[f], 0)
		}
	}
}

func assertSameValues(t *testing.T, want, got []float64) {
	t.Helper()

	counts := make(map[uint64]int, len(want))
	for _, v := range want {
		counts[math.Float64bits(v)]++
	}

	for _, v := range got {
		counts[math.Float64bits(v)]--
	}

	for bitsKey, c := range counts {
		assert.Zero(t, c, "value %v count differs", math.Float64frombits(bitsKey))
	}
}

func permutations(n int, visit func([]int)) {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}

	var gen func(k int)
	gen = func(k int) {
		if k == n {
			visit(p)

			return
		}

		for i := k; i < n; i++ {
			p[k], p[i] = p[i], p[k]
			gen(k + 1)
			p[k], p[i] = p[i], p[k]
		}
	}

	gen(0)
}
