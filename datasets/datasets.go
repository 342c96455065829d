// Package datasets generates deterministic record buffers for tests and the
// sortcheck harness.
//
// Every generated buffer keeps its sort key in field 0. Payload fields (1 and
// up) hold the record's original index, so after sorting each record can be
// traced back to where it came from; a record whose payload disagrees with its
// key was scrambled.
package datasets

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Kind names a key distribution.
type Kind string

const (
	Random    Kind = "random"
	Sorted    Kind = "sorted"
	Reversed  Kind = "reversed"
	Equal     Kind = "equal"
	OrganPipe Kind = "organ-pipe"
	Sawtooth  Kind = "sawtooth"
	FewUnique Kind = "few-unique"
)

// ErrUnknownKind is returned by ParseKind for a name it does not recognize.
var ErrUnknownKind = errors.New("unknown dataset kind")

const (
	sawtoothPeriod  = 16
	fewUniqueValues = 4
	randomSpan      = 1000
)

// Kinds returns every supported kind.
func Kinds() []Kind {
	return []Kind{Random, Sorted, Reversed, Equal, OrganPipe, Sawtooth, FewUnique}
}

// ParseKind resolves a kind by name, ignoring case and surrounding space.
func ParseKind(name string) (Kind, error) {
	want := Kind(strings.ToLower(strings.TrimSpace(name)))

	for _, k := range Kinds() {
		if k == want {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Generate returns count records of eleSize slots with keys drawn from kind.
// The same arguments always produce the same buffer. eleSize values below 1
// are treated as 1.
func Generate(kind Kind, count, eleSize int, seed uint64) []float64 {
	eleSize = max(eleSize, 1)
	count = max(count, 0)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec
	buf := make([]float64, count*eleSize)

	for i := range count {
		base := i * eleSize
		buf[base] = key(kind, i, count, rng)

		for f := 1; f < eleSize; f++ {
			buf[base+f] = float64(i)
		}
	}

	return buf
}

func key(kind Kind, i, count int, rng *rand.Rand) float64 {
	switch kind {
	case Sorted:
		return float64(i)
	case Reversed:
		return float64(count - i)
	case Equal:
		return 1
	case OrganPipe:
		if i < count/2 {
			return float64(i)
		}

		return float64(count - i)
	case Sawtooth:
		return float64(i % sawtoothPeriod)
	case FewUnique:
		return float64(rng.IntN(fewUniqueValues))
	default:
		return rng.Float64() * randomSpan
	}
}

// Float32s converts a generated buffer to float32.
func Float32s(src []float64) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = float32(v)
	}

	return out
}
