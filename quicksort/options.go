package quicksort

// DefaultInsertionThreshold is the largest range finished by insertion sort
// instead of being partitioned further.
const DefaultInsertionThreshold = 12

// Stats counts the work done by one sorting call.
type Stats struct {
	// Comparisons is the number of key comparisons (or comparator calls).
	Comparisons int
	// Swaps is the number of record swaps, including self-swaps.
	Swaps int
	// MaxDepth is the deepest recursion level reached; the top-level call is 1.
	MaxDepth int
	// HeapsortFallbacks counts ranges whose partition budget ran out and were
	// finished by heapsort.
	HeapsortFallbacks int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Comparisons += other.Comparisons
	s.Swaps += other.Swaps
	s.HeapsortFallbacks += other.HeapsortFallbacks

	if other.MaxDepth > s.MaxDepth {
		s.MaxDepth = other.MaxDepth
	}
}

type options struct {
	stats     *Stats
	threshold int
}

// Option configures a single sorting call.
type Option func(*options)

// WithStats makes the call write its work counters to stats. The counters are
// written even when the call fails part-way because of a comparator error, and
// are zeroed when the call is rejected before sorting.
func WithStats(stats *Stats) Option {
	return func(o *options) {
		o.stats = stats
	}
}

// WithInsertionThreshold overrides DefaultInsertionThreshold. Values below 1
// are raised to 1, which partitions every range of two or more records.
func WithInsertionThreshold(n int) Option {
	return func(o *options) {
		o.threshold = max(n, 1)
	}
}

func resolve(opts []Option) options {
	o := options{threshold: DefaultInsertionThreshold}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) report(stats Stats) {
	if o.stats != nil {
		*o.stats = stats
	}
}
