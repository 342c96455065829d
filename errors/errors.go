// Package errors defines the error taxonomy shared by every flatsort package.
//
// All errors returned by the engine wrap one of the sentinels below, so callers
// classify failures with the standard library's errors.Is.
package errors

import "errors"

var (
	// ErrInvalidArgument is returned when a record layout is malformed: a stride
	// below 1, a key field outside the record, or a buffer whose length is not a
	// whole number of records.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRange is returned when a [begin, end) range is inverted or reaches
	// outside the buffer.
	ErrRange = errors.New("range out of bounds")

	// ErrTypeInvalid is returned when a comparator is missing.
	ErrTypeInvalid = errors.New("invalid comparator")

	// ErrComparator wraps an error raised by a fallible comparator mid-sort.
	ErrComparator = errors.New("comparator failed")
)

// Collection is a thread-unsafe utility for accumulating multiple errors.
// It provides methods to add errors, check for errors, and retrieve them as a single combined error.
// Validation code uses it to report every violated precondition of a call at once.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear removes all errors from the collection, resetting it to an empty state.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// GetError returns the collected errors as a single error.
// Returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
