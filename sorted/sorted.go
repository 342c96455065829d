// Package sorted answers whether a sequence is already in order.
//
// It is the oracle behind the quicksort tests and is equally usable on its own,
// for example to check externally built data before trusting it.
package sorted

import (
	"fmt"

	"github.com/amp-labs/flatsort/compare"
	"github.com/amp-labs/flatsort/errors"
	"github.com/amp-labs/flatsort/records"
)

// IsSorted reports whether cmp(seq[i], seq[i+1]) <= 0 for every adjacent pair.
// Empty and single-element sequences are sorted. A nil comparator reports false.
func IsSorted[T any](seq []T, cmp compare.Comparator[T]) bool {
	return IsSortedIn(seq, cmp, records.All(len(seq)))
}

// IsSortedIn is IsSorted restricted to the elements in rng. An invalid range
// reports false.
func IsSortedIn[T any](seq []T, cmp compare.Comparator[T], rng records.Range) bool {
	ok, err := Check(seq, cmp, rng)

	return ok && err == nil
}

// Check is IsSortedIn with the reason for a rejected call: errors.ErrTypeInvalid
// for a nil comparator, errors.ErrRange for a bad range.
func Check[T any](seq []T, cmp compare.Comparator[T], rng records.Range) (bool, error) {
	if cmp == nil {
		return false, fmt.Errorf("%w: comparator is nil", errors.ErrTypeInvalid)
	}

	if err := rng.Validate(len(seq)); err != nil {
		return false, err
	}

	return firstUnsorted(seq, cmp, rng) < 0, nil
}

// FirstUnsorted returns the smallest i with cmp(seq[i], seq[i+1]) > 0, or -1
// when seq is sorted or cmp is nil.
func FirstUnsorted[T any](seq []T, cmp compare.Comparator[T]) int {
	if cmp == nil {
		return -1
	}

	return firstUnsorted(seq, cmp, records.All(len(seq)))
}

func firstUnsorted[T any](seq []T, cmp compare.Comparator[T], rng records.Range) int {
	for i := rng.Begin; i+1 < rng.End; i++ {
		if cmp(seq[i], seq[i+1]) > 0 {
			return i
		}
	}

	return -1
}

// RecordsByField reports whether the records of buf in rng have non-decreasing
// key fields. It is the oracle matching quicksort.ByFieldIn and rejects the same
// layouts and ranges.
func RecordsByField[T records.Number](buf []T, eleSize, field int, rng records.Range) (bool, error) {
	if err := records.ValidateLayout(len(buf), eleSize, field); err != nil {
		return false, err
	}

	if err := rng.Validate(records.Count(len(buf), eleSize)); err != nil {
		return false, err
	}

	for i := rng.Begin; i+1 < rng.End; i++ {
		if records.Key(buf, eleSize, field, i+1) < records.Key(buf, eleSize, field, i) {
			return false, nil
		}
	}

	return true, nil
}
