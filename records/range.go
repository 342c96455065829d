package records

import (
	"fmt"
	"log/slog"

	"github.com/amp-labs/flatsort/errors"
)

// Range is a half-open interval [Begin, End) of record (or element) indices.
type Range struct {
	Begin int
	End   int
}

// All returns the range covering every one of count records. It is the default
// range of every operation that takes none.
func All(count int) Range {
	return Range{Begin: 0, End: count}
}

// Span returns the range [begin, end).
func Span(begin, end int) Range {
	return Range{Begin: begin, End: end}
}

// Len returns the number of indices in the range, or zero for an inverted range.
func (r Range) Len() int {
	if r.End < r.Begin {
		return 0
	}

	return r.End - r.Begin
}

// Empty reports whether the range holds no indices.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Begin && i < r.End
}

// Validate checks 0 <= Begin <= End <= count. Violations wrap errors.ErrRange.
func (r Range) Validate(count int) error {
	switch {
	case r.Begin < 0:
		return fmt.Errorf("%w: begin %d is negative", errors.ErrRange, r.Begin)
	case r.End > count:
		return fmt.Errorf("%w: end %d exceeds count %d", errors.ErrRange, r.End, count)
	case r.Begin > r.End:
		return fmt.Errorf("%w: begin %d is after end %d", errors.ErrRange, r.Begin, r.End)
	default:
		return nil
	}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Begin, r.End)
}

// LogValue logs a range as a group with begin and end.
func (r Range) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("begin", r.Begin), slog.Int("end", r.End))
}
