//go:build !assertions_disabled

package assert

import "fmt"

// Enabled reports whether checks are compiled in.
const Enabled = true

// True panics unless value is true. See message for args.
func True(value bool, args ...any) {
	if !value {
		panic(message(args))
	}
}

// False panics unless value is false.
func False(value bool, args ...any) {
	if value {
		panic(message(args))
	}
}

// InRange panics unless lo <= i < hi. It takes no variadic arguments so hot
// loops can call it without allocating.
func InRange(i, lo, hi int) {
	if i < lo || i >= hi {
		panic(fmt.Sprintf("assertion failed: index %d outside [%d, %d)", i, lo, hi))
	}
}
