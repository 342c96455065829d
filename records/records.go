// Package records implements the stride-based addressing convention used by the
// sorting engine: a flat numeric buffer holds consecutive fixed-width records,
// and field f of record i lives at buf[i*eleSize+f].
//
// Nothing here allocates. A record is identified by its index and is never
// materialized; Record returns a view sharing the buffer's memory.
package records

import (
	"fmt"

	"github.com/amp-labs/flatsort/errors"
)

// Number is the set of element types a buffer may hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Offset returns the buffer index of field f of record i.
func Offset(eleSize, i, f int) int {
	return i*eleSize + f
}

// Count returns the number of whole records in a buffer of the given length.
func Count(length, eleSize int) int {
	if eleSize <= 0 {
		return 0
	}

	return length / eleSize
}

// Key returns the value of the key field of record i.
func Key[T Number](buf []T, eleSize, field, i int) T {
	return buf[i*eleSize+field]
}

// Record returns the eleSize slots of record i as a sub-slice of buf.
// Writes through the returned slice modify buf.
func Record[T Number](buf []T, eleSize, i int) []T {
	start := i * eleSize

	return buf[start : start+eleSize : start+eleSize]
}

// Swap exchanges records i and j field by field, so every payload field travels
// with its key. Swapping a record with itself is a no-op.
func Swap[T Number](buf []T, eleSize, i, j int) {
	if i == j {
		return
	}

	a, b := i*eleSize, j*eleSize
	for f := range eleSize {
		buf[a+f], buf[b+f] = buf[b+f], buf[a+f]
	}
}

// ValidateLayout checks that a buffer of the given length can be read as records
// of eleSize slots keyed on field. Every violated precondition is reported; each
// wraps errors.ErrInvalidArgument.
func ValidateLayout(length, eleSize, field int) error {
	var errs errors.Collection

	if eleSize < 1 {
		errs.Add(fmt.Errorf("%w: eleSize must be at least 1, got %d", errors.ErrInvalidArgument, eleSize))
	} else {
		if field < 0 || field >= eleSize {
			errs.Add(fmt.Errorf("%w: field offset %d outside record of %d fields",
				errors.ErrInvalidArgument, field, eleSize))
		}

		if length%eleSize != 0 {
			errs.Add(fmt.Errorf("%w: buffer length %d is not a multiple of eleSize %d",
				errors.ErrInvalidArgument, length, eleSize))
		}
	}

	return errs.GetError()
}
