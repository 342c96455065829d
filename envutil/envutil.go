// Package envutil reads typed configuration values from environment variables.
//
// Every reader takes a context so that tests and embedding programs can
// override a variable for one call tree (see WithEnvOverride) without touching
// the process environment.
package envutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unsafe"
)

var (
	// ErrInvalidLogLevel is returned when a log level string is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrNonPositive is returned by Positive for zero or negative values.
	ErrNonPositive = errors.New("value must be positive")
)

// get returns a Reader for the given key, preferring a context override to the
// process environment.
func get(ctx context.Context, key string) Reader[string] {
	if val, ok := getEnvOverride(ctx, key); ok {
		return Reader[string]{key: key, present: true, value: val}
	}

	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// NewReader returns a Reader for the given raw data, for values that come from
// somewhere other than the environment.
func NewReader[T any](key string, present bool, err error, value T) Reader[T] {
	return Reader[T]{
		key:     key,
		present: present,
		value:   value,
		err:     err,
	}
}

// String returns a Reader for the given environment variable key.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

// Bool parses the variable with strconv.ParseBool.
func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(trimmed(ctx, key), strconv.ParseBool), opts)
}

// Int parses the variable as a base-10 integer that fits in I.
func Int[I ~int | ~int8 | ~int16 | ~int32 | ~int64](ctx context.Context, key string, opts ...Option[I]) Reader[I] {
	rdr := Map(trimmed(ctx, key), func(s string) (I, error) {
		var zero I

		v, err := strconv.ParseInt(s, 10, bitSize(zero))

		return I(v), err
	})

	return apply(rdr, opts)
}

// Uint64 parses the variable as a base-10 unsigned integer.
func Uint64(ctx context.Context, key string, opts ...Option[uint64]) Reader[uint64] {
	rdr := Map(trimmed(ctx, key), func(s string) (uint64, error) {
		return strconv.ParseUint(s, 10, 64)
	})

	return apply(rdr, opts)
}

// Duration parses the variable with time.ParseDuration.
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(trimmed(ctx, key), time.ParseDuration), opts)
}

// SlogLevel parses one of "debug", "info", "warn" or "error", ignoring case.
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	rdr := Map(trimmed(ctx, key), func(s string) (slog.Level, error) {
		switch strings.ToLower(s) {
		case "debug":
			return slog.LevelDebug, nil
		case "info":
			return slog.LevelInfo, nil
		case "warn":
			return slog.LevelWarn, nil
		case "error":
			return slog.LevelError, nil
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
		}
	})

	return apply(rdr, opts)
}

// Positive is a validator for Validate that rejects zero and negative numbers.
func Positive[N ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64](value N) error {
	if value <= 0 {
		return fmt.Errorf("%w: got %v", ErrNonPositive, value)
	}

	return nil
}

func trimmed(ctx context.Context, key string) Reader[string] {
	return get(ctx, key).Map(func(s string) (string, error) {
		return strings.TrimSpace(s), nil
	})
}

func bitSize[I ~int | ~int8 | ~int16 | ~int32 | ~int64](v I) int {
	return int(unsafe.Sizeof(v)) * 8 //nolint:gosec
}
