package sortable

import (
	"github.com/amp-labs/flatsort/compare"
)

// Sortable is a value that knows how to order itself against another value of
// the same type.
type Sortable[T any] interface {
	compare.Comparable[T]

	LessThan(other T) bool
}

// Comparator turns the LessThan/Equals pair of a Sortable type into a
// three-way compare.Comparator usable by the sorting engine.
//
// Equals is checked first. Values that are neither LessThan nor greater than
// each other also compare as zero, even when Equals disagrees (NaN wrappers,
// for example).
func Comparator[T Sortable[T]]() compare.Comparator[T] {
	return func(a, b T) int {
		switch {
		case compare.Equals[T](a, b):
			return 0
		case a.LessThan(b):
			return -1
		case b.LessThan(a):
			return 1
		default:
			return 0
		}
	}
}
