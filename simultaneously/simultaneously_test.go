package simultaneously

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTestPanic = errors.New("test error panic")
	errTest      = errors.New("test error")
)

func TestDoCtx_AllSucceed(t *testing.T) {
	t.Parallel()

	var count atomic.Int32

	callbacks := make([]func(context.Context) error, 20)
	for i := range callbacks {
		callbacks[i] = func(context.Context) error {
			count.Add(1)

			return nil
		}
	}

	require.NoError(t, DoCtx(t.Context(), 4, callbacks...))
	assert.Equal(t, int32(20), count.Load())
}

func TestDoCtx_NoCallbacks(t *testing.T) {
	t.Parallel()

	require.NoError(t, DoCtx(t.Context(), 4))
	require.NoError(t, DoCtx(t.Context(), 0))
}

func TestDoCtx_RespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var running, peak atomic.Int32

	callbacks := make([]func(context.Context) error, 12)
	for i := range callbacks {
		callbacks[i] = func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}

			time.Sleep(5 * time.Millisecond)
			running.Add(-1)

			return nil
		}
	}

	require.NoError(t, DoCtx(t.Context(), 3, callbacks...))
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestDoCtx_RecoversPanic(t *testing.T) {
	t.Parallel()

	err := DoCtx(t.Context(), 2,
		func(ctx context.Context) error {
			panic("intentional panic for testing")
		},
	)

	require.ErrorIs(t, err, ErrPanicRecovered)
	assert.Contains(t, err.Error(), "intentional panic for testing")
	assert.Contains(t, err.Error(), "simultaneously_test.go")
}

func TestDoCtx_RecoversPanicError(t *testing.T) {
	t.Parallel()

	err := DoCtx(t.Context(), 2,
		func(ctx context.Context) error {
			panic(errTestPanic)
		},
	)

	require.ErrorIs(t, err, ErrPanicRecovered)
	require.ErrorIs(t, err, errTestPanic)
}

func TestDoCtx_ErrorCancelsOthers(t *testing.T) {
	t.Parallel()

	var sawCancel atomic.Bool

	err := DoCtx(t.Context(), 2,
		func(ctx context.Context) error {
			return errTest
		},
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				sawCancel.Store(true)

				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	)

	require.ErrorIs(t, err, errTest)
	assert.True(t, sawCancel.Load())
}

func TestDoCtx_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var ran atomic.Bool

	err := DoCtx(ctx, 1, func(context.Context) error {
		ran.Store(true)

		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

func TestMap(t *testing.T) {
	t.Parallel()

	out, err := Map(t.Context(), 3, []int{1, 2, 3, 4, 5}, func(_ context.Context, v int) (int, error) {
		return v * v, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9, 16, 25}, out)

	out, err = Map(t.Context(), 3, []int{1, 2, 3}, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, errTest
		}

		return v, nil
	})
	require.ErrorIs(t, err, errTest)
	assert.Nil(t, out)
}
