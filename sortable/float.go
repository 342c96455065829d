package sortable

// Float32 is a sortable wrapper type for the built-in float32 type.
// Its underlying type is float32, so a []Float32 is also a valid record buffer.
type Float32 float32

// Compile-time check that Float32 implements Sortable[Float32].
var _ Sortable[Float32] = (*Float32)(nil)

// Equals returns true if this Float32 has the same value as the other Float32.
func (f Float32) Equals(other Float32) bool {
	return float32(f) == float32(other)
}

// LessThan returns true if this Float32 is numerically less than the other Float32.
func (f Float32) LessThan(other Float32) bool {
	return float32(f) < float32(other)
}

// Float64 is a sortable wrapper type for the built-in float64 type.
type Float64 float64

// Compile-time check that Float64 implements Sortable[Float64].
var _ Sortable[Float64] = (*Float64)(nil)

// Equals returns true if this Float64 has the same value as the other Float64.
func (f Float64) Equals(other Float64) bool {
	return float64(f) == float64(other)
}

// LessThan returns true if this Float64 is numerically less than the other Float64.
func (f Float64) LessThan(other Float64) bool {
	return float64(f) < float64(other)
}
