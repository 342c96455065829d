// Package compare provides the ordering strategies used by the sorting engine.
//
// A Comparator is a plain three-way function. The engine never special-cases a
// missing comparator; callers that want the default order pass Ascending.
package compare

import "cmp"

// Comparable is a generic interface for types that can compare themselves for equality.
// Types implementing this interface must provide their own Equals method that determines
// whether two values are equal according to the type's semantics.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Equals compares two values using the Comparable interface.
// It delegates to the Equals method of the first argument.
func Equals[T any](a Comparable[T], b T) bool {
	return a.Equals(b)
}

// Comparator returns a negative number when a orders before b, a positive
// number when a orders after b, and zero when neither orders first.
//
// A comparator must describe a strict weak ordering for a sort result to be
// well defined. The engine does not check this; an inconsistent comparator
// produces an unspecified order but never an out-of-bounds access.
type Comparator[T any] func(a, b T) int

// Fallible is a comparator that can fail. The first error aborts the sort in
// progress and is returned to the caller.
type Fallible[T any] func(a, b T) (int, error)

// Ascending orders values with the language's < and > operators.
// Values that are neither less nor greater (equal values, or NaN against
// anything) compare as zero.
func Ascending[T cmp.Ordered](a, b T) int {
	if a < b {
		return -1
	}

	if a > b {
		return 1
	}

	return 0
}

// Descending is Ascending with the sign conventions swapped.
func Descending[T cmp.Ordered](a, b T) int {
	return Ascending(b, a)
}

// Invert returns a comparator ordering values in the opposite direction of c.
// Inverting a nil comparator yields nil.
func Invert[T any](c Comparator[T]) Comparator[T] {
	if c == nil {
		return nil
	}

	return func(a, b T) int {
		return c(b, a)
	}
}

// Infallible lifts a comparator into a Fallible that never fails.
func Infallible[T any](c Comparator[T]) Fallible[T] {
	if c == nil {
		return nil
	}

	return func(a, b T) (int, error) {
		return c(a, b), nil
	}
}
