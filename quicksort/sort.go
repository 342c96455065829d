package quicksort

import (
	"fmt"

	"github.com/amp-labs/flatsort/compare"
	"github.com/amp-labs/flatsort/errors"
	"github.com/amp-labs/flatsort/records"
)

// ByField sorts every record of buf ascending by its key field.
// See ByFieldIn.
func ByField[T records.Number](buf []T, eleSize, field int, opts ...Option) error {
	return ByFieldIn(buf, eleSize, field, records.All(records.Count(len(buf), eleSize)), opts...)
}

// ByFieldIn reorders the records of buf in rng so that their key fields,
// buf[r*eleSize+field], are non-decreasing. Whole records are swapped, so the
// other fields of a record stay with its key. Records outside rng are not
// touched. Equal keys end up in no particular order.
//
// The layout and range are validated before anything moves: on error buf is
// unchanged. Errors wrap errors.ErrInvalidArgument or errors.ErrRange.
func ByFieldIn[T records.Number](buf []T, eleSize, field int, rng records.Range, opts ...Option) error {
	o := resolve(opts)

	if err := records.ValidateLayout(len(buf), eleSize, field); err != nil {
		o.report(Stats{})

		return err
	}

	if err := rng.Validate(records.Count(len(buf), eleSize)); err != nil {
		o.report(Stats{})

		return err
	}

	s := newSorter(fieldData[T]{buf: buf, eleSize: eleSize, field: field}, o)
	s.sort(rng.Begin, rng.End)
	o.report(s.stats)

	return nil
}

// Ascending sorts buf in ascending numeric order. It is ByComparator with the
// default comparator, compare.Ascending.
func Ascending[T records.Number](buf []T, opts ...Option) error {
	return ByComparator(buf, compare.Ascending[T], opts...)
}

// ByComparator sorts every element of buf by cmp.
// See ByComparatorIn.
func ByComparator[T records.Number](buf []T, cmp compare.Comparator[T], opts ...Option) error {
	return ByComparatorIn(buf, cmp, records.All(len(buf)), opts...)
}

// ByComparatorIn reorders the elements of buf in rng so that
// cmp(buf[i], buf[i+1]) <= 0 for every adjacent pair in the range. Passing
// compare.Invert(c) instead of c yields the reverse order.
//
// A nil cmp fails with errors.ErrTypeInvalid; an invalid range with
// errors.ErrRange. A panic raised by cmp propagates to the caller and leaves
// buf as some permutation of its original contents.
func ByComparatorIn[T records.Number](buf []T, cmp compare.Comparator[T], rng records.Range, opts ...Option) error {
	o := resolve(opts)

	if cmp == nil {
		o.report(Stats{})

		return fmt.Errorf("%w: comparator is nil", errors.ErrTypeInvalid)
	}

	if err := rng.Validate(len(buf)); err != nil {
		o.report(Stats{})

		return err
	}

	s := newSorter(comparatorData[T]{buf: buf, cmp: cmp}, o)
	s.sort(rng.Begin, rng.End)
	o.report(s.stats)

	return nil
}

// ByFallible sorts every element of buf by a comparator that may fail.
// See ByFallibleIn.
func ByFallible[T records.Number](buf []T, cmp compare.Fallible[T], opts ...Option) error {
	return ByFallibleIn(buf, cmp, records.All(len(buf)), opts...)
}

// ByFallibleIn is ByComparatorIn for a comparator that reports errors. The first
// error stops the sort and is returned wrapped in errors.ErrComparator; buf is
// then left as a permutation of its original contents, not rolled back.
func ByFallibleIn[T records.Number](buf []T, cmp compare.Fallible[T], rng records.Range, opts ...Option) (err error) {
	o := resolve(opts)

	if cmp == nil {
		o.report(Stats{})

		return fmt.Errorf("%w: comparator is nil", errors.ErrTypeInvalid)
	}

	if err := rng.Validate(len(buf)); err != nil {
		o.report(Stats{})

		return err
	}

	s := newSorter(fallibleData[T]{buf: buf, cmp: cmp}, o)

	defer func() {
		o.report(s.stats)

		if r := recover(); r != nil {
			failure, ok := r.(comparatorFailure)
			if !ok {
				panic(r)
			}

			err = fmt.Errorf("%w: %w", errors.ErrComparator, failure.err)
		}
	}()

	s.sort(rng.Begin, rng.End)

	return nil
}
