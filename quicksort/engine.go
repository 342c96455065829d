package quicksort

import "github.com/amp-labs/flatsort/assert"

// data is an index-addressed sequence the engine can order. less compares the
// sort keys of two positions; swap exchanges two positions in full.
type data interface {
	less(i, j int) bool
	swap(i, j int)
}

type sorter[D data] struct {
	data      D
	threshold int
	stats     Stats
}

func newSorter[D data](d D, opts options) *sorter[D] {
	return &sorter[D]{
		data:      d,
		threshold: opts.threshold,
	}
}

func (s *sorter[D]) less(i, j int) bool {
	s.stats.Comparisons++

	return s.data.less(i, j)
}

func (s *sorter[D]) swap(i, j int) {
	s.stats.Swaps++

	s.data.swap(i, j)
}

// sort orders positions [lo, hi).
func (s *sorter[D]) sort(lo, hi int) {
	assert.True(0 <= lo && lo <= hi)

	if hi-lo < 2 || s.ordered(lo, hi) {
		return
	}

	s.quickSort(lo, hi, 1, maxDepth(hi-lo))
}

// ordered reports whether no key in [lo, hi) is less than its predecessor.
// A range that already is in order is left exactly as it is, equal keys
// included.
func (s *sorter[D]) ordered(lo, hi int) bool {
	for i := lo + 1; i < hi; i++ {
		if s.less(i, i-1) {
			return false
		}
	}

	return true
}

// quickSort recurses only into the smaller side of each partition and loops on
// the larger one, so the call depth never exceeds floor(log2(hi-lo))+1.
// budget counts the partition steps left before the range is handed to heapsort.
func (s *sorter[D]) quickSort(lo, hi, depth, budget int) {
	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}

	for hi-lo > s.threshold {
		if budget == 0 {
			s.stats.HeapsortFallbacks++
			s.heapSort(lo, hi)

			return
		}

		budget--

		p := s.partition(lo, hi)

		if p-lo < hi-p-1 {
			s.quickSort(lo, p, depth+1, budget)
			lo = p + 1
		} else {
			s.quickSort(p+1, hi, depth+1, budget)
			hi = p
		}
	}

	s.insertionSort(lo, hi)
}

// partition places the median of the first, middle and last keys at its final
// position p and returns it. Keys in [lo, p) are <= the pivot, keys in (p, hi)
// are >= the pivot. Requires hi-lo >= 2.
func (s *sorter[D]) partition(lo, hi int) int {
	mid := int(uint(lo+hi) >> 1)

	s.medianOfThree(lo, mid, hi-1)

	// The pivot sits at lo for the whole scan; i and j never reach it.
	s.swap(lo, mid)

	i, j := lo+1, hi-1
	for {
		for i <= j && s.less(i, lo) {
			i++
		}

		for i <= j && s.less(lo, j) {
			j--
		}

		if i >= j {
			break
		}

		s.swap(i, j)
		i++
		j--
	}

	assert.InRange(j, lo, hi)
	s.swap(lo, j)

	return j
}

// medianOfThree orders the keys at a, b, c so that key(a) <= key(b) <= key(c).
func (s *sorter[D]) medianOfThree(a, b, c int) {
	if s.less(b, a) {
		s.swap(a, b)
	}

	if s.less(c, b) {
		s.swap(b, c)

		if s.less(b, a) {
			s.swap(a, b)
		}
	}
}

func (s *sorter[D]) insertionSort(lo, hi int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && s.less(j, j-1); j-- {
			s.swap(j, j-1)
		}
	}
}

// siftDown implements the heap property on data[lo, hi).
// first is an offset into the array where the root of the heap lies.
func (s *sorter[D]) siftDown(lo, hi, first int) {
	root := lo

	for {
		child := 2*root + 1
		if child >= hi {
			return
		}

		if child+1 < hi && s.less(first+child, first+child+1) {
			child++
		}

		if !s.less(first+root, first+child) {
			return
		}

		s.swap(first+root, first+child)
		root = child
	}
}

func (s *sorter[D]) heapSort(a, b int) {
	first := a
	lo := 0
	hi := b - a

	// Build heap with greatest element at top.
	for i := (hi - 1) / 2; i >= 0; i-- {
		s.siftDown(i, hi, first)
	}

	// Pop elements, largest first, into end of data.
	for i := hi - 1; i >= 0; i-- {
		s.swap(first, first+i)
		s.siftDown(lo, i, first)
	}
}

// maxDepth returns a threshold at which quicksort should switch
// to heapsort. It returns 2*ceil(lg(n+1)).
func maxDepth(n int) int {
	var depth int
	for i := n; i > 0; i >>= 1 {
		depth++
	}

	return depth * 2
}
