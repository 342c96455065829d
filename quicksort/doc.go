// Package quicksort sorts flat numeric buffers in place.
//
// A buffer is a []T read either as scalars or as fixed-width records of eleSize
// consecutive slots (see package records). Two families of entry points share
// one engine:
//
//   - ByField / ByFieldIn order records by a single key field using <, moving
//     whole records so payload fields stay attached to their key.
//   - ByComparator / ByComparatorIn / Ascending order scalars with a three-way
//     comparator; ByFallible / ByFallibleIn accept a comparator that can fail.
//
// The In variants take an explicit records.Range; the others cover the whole
// buffer.
//
// # Algorithm
//
// Quicksort with a median-of-three pivot (first, middle and last key), a
// Hoare-style partition that swaps whole records, and insertion sort for ranges
// of at most DefaultInsertionThreshold records. Only the smaller side of a
// partition is handled recursively; the larger one is handled by the loop, so
// the stack never grows past floor(log2 n)+1 frames. Each range also carries a
// partition budget of 2*ceil(lg(n+1)); when it runs out, heapsort finishes the
// range, which keeps adversarial inputs at O(n log n).
//
// A range whose keys are already non-decreasing is detected with one linear
// scan and left untouched, so sorting twice gives the same buffer as sorting
// once. Apart from that the sort is not stable, and it allocates nothing
// proportional to the input.
//
// # Errors
//
// Arguments are validated before the first swap, so a rejected call leaves the
// buffer untouched. See package errors for the taxonomy.
//
// # Concurrency
//
// Calls are synchronous and assume exclusive access to the buffer.
package quicksort
