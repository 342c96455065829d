// Package sortable provides wrapper types for numeric primitives that implement
// the Sortable interface, and a bridge from any Sortable type to the three-way
// comparator consumed by the quicksort package.
//
// # Overview
//
// The Sortable interface extends [github.com/amp-labs/flatsort/compare.Comparable]
// by adding a LessThan method, providing both equality comparison and ordering.
// [Comparator] derives a [github.com/amp-labs/flatsort/compare.Comparator] from
// those two methods.
//
// The wrappers [Int], [Float32] and [Float64] keep their primitive underlying
// types, so slices of them are valid record buffers for the quicksort package.
//
// # Usage
//
//	xs := []sortable.Float32{3, 0, 5, 9, 2, 1, 7}
//	err := quicksort.ByComparator(xs, sortable.Comparator[sortable.Float32]())
//	// xs is now 0, 1, 2, 3, 5, 7, 9
//
// # Creating Custom Sortable Types
//
// Any named numeric type can take part by implementing Equals and LessThan:
//
//	type Elevation float64
//
//	func (e Elevation) Equals(o Elevation) bool   { return e == o }
//	func (e Elevation) LessThan(o Elevation) bool { return e < o }
//
// # Thread Safety
//
// The wrapper types in this package are value types and are inherently thread-safe
// for read operations. Sorting a buffer of them still requires exclusive access to
// that buffer for the duration of the call.
package sortable
