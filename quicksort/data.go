package quicksort

import (
	"github.com/amp-labs/flatsort/compare"
	"github.com/amp-labs/flatsort/records"
)

// fieldData orders records by one key field with the < operator.
type fieldData[T records.Number] struct {
	buf     []T
	eleSize int
	field   int
}

func (d fieldData[T]) less(i, j int) bool {
	return d.buf[i*d.eleSize+d.field] < d.buf[j*d.eleSize+d.field]
}

func (d fieldData[T]) swap(i, j int) {
	records.Swap(d.buf, d.eleSize, i, j)
}

// comparatorData orders scalar elements with a caller-supplied comparator.
type comparatorData[T records.Number] struct {
	buf []T
	cmp compare.Comparator[T]
}

func (d comparatorData[T]) less(i, j int) bool {
	return d.cmp(d.buf[i], d.buf[j]) < 0
}

func (d comparatorData[T]) swap(i, j int) {
	records.Swap(d.buf, 1, i, j)
}

// comparatorFailure carries a fallible comparator's error out of the engine.
// It is raised as a panic and recovered only by ByFallibleIn.
type comparatorFailure struct {
	err error
}

// fallibleData orders scalar elements with a comparator that may fail.
type fallibleData[T records.Number] struct {
	buf []T
	cmp compare.Fallible[T]
}

func (d fallibleData[T]) less(i, j int) bool {
	c, err := d.cmp(d.buf[i], d.buf[j])
	if err != nil {
		panic(comparatorFailure{err: err})
	}

	return c < 0
}

func (d fallibleData[T]) swap(i, j int) {
	records.Swap(d.buf, 1, i, j)
}
