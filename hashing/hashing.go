// Package hashing fingerprints record buffers so sorting calls can be checked
// without keeping a full copy of the input.
//
// Digest is order-sensitive: two ranges share a digest only when they hold the
// same records in the same order. Multiset is order-independent: it only
// changes when a record is added, dropped or altered, which makes it the
// fingerprint of a permutation.
package hashing

import (
	"encoding/binary"
	"hash"
	"math"
	"unsafe"

	"github.com/OneOfOne/xxhash"
	"github.com/amp-labs/flatsort/records"
	"github.com/zeebo/xxh3"
)

// HashFunc is a function that takes a Hashable object and returns its 64-bit
// fingerprint. Sum64 is a HashFunc.
type HashFunc func(hashable Hashable) (uint64, error)

// Hashable is an interface that allows an object to update
// a hash.Hash with its contents. This is useful for hashing
// objects so that they can be easily compared.
type Hashable interface {
	UpdateHash(h hash.Hash) error
}

// Sum64 returns the xxhash64 of the given Hashable. If the Hashable fails to
// update the hash, an error is returned.
func Sum64(hashable Hashable) (uint64, error) {
	h := xxhash.New64()

	if err := hashable.UpdateHash(h); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

// RecordSet is a range of records inside a flat buffer.
type RecordSet[T records.Number] struct {
	Buf     []T
	EleSize int
	Range   records.Range
}

// Validate checks the layout and range of the set.
func (s RecordSet[T]) Validate() error {
	if err := records.ValidateLayout(len(s.Buf), s.EleSize, 0); err != nil {
		return err
	}

	return s.Range.Validate(records.Count(len(s.Buf), s.EleSize))
}

// UpdateHash writes the raw bits of every value in the range, record by record.
func (s RecordSet[T]) UpdateHash(h hash.Hash) error {
	if err := s.Validate(); err != nil {
		return err
	}

	var scratch [8]byte

	for i := s.Range.Begin; i < s.Range.End; i++ {
		for _, v := range records.Record(s.Buf, s.EleSize, i) {
			binary.LittleEndian.PutUint64(scratch[:], bits(v))

			if _, err := h.Write(scratch[:]); err != nil {
				return err
			}
		}
	}

	return nil
}

// Digest returns the order-sensitive fingerprint of the records in rng.
func Digest[T records.Number](buf []T, eleSize int, rng records.Range) (uint64, error) {
	return Sum64(RecordSet[T]{Buf: buf, EleSize: eleSize, Range: rng})
}

// Multiset returns the order-independent fingerprint of the records in rng.
// Each record is hashed on its own and the hashes are summed, so moving whole
// records around keeps the value while splitting a record apart changes it.
func Multiset[T records.Number](buf []T, eleSize int, rng records.Range) (uint64, error) {
	set := RecordSet[T]{Buf: buf, EleSize: eleSize, Range: rng}
	if err := set.Validate(); err != nil {
		return 0, err
	}

	scratch := make([]byte, 8*eleSize)

	var sum uint64

	for i := rng.Begin; i < rng.End; i++ {
		for f, v := range records.Record(buf, eleSize, i) {
			binary.LittleEndian.PutUint64(scratch[8*f:], bits(v))
		}

		sum += xxh3.Hash(scratch)
	}

	return sum, nil
}

// bits returns the 64-bit pattern of v. Floats keep their IEEE-754 encoding,
// so NaN payloads and signed zeros hash distinctly.
func bits[T records.Number](v T) uint64 {
	var half T = 1

	half /= 2
	if half == 0 {
		return uint64(v)
	}

	if unsafe.Sizeof(v) == 4 { //nolint:gosec
		return uint64(math.Float32bits(float32(v)))
	}

	return math.Float64bits(float64(v))
}
