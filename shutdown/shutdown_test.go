package shutdown

import (
	"context"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()

	mut.Lock()
	hooks = nil
	channel = nil
	mut.Unlock()
}

func currentChannel() bool {
	mut.Lock()
	defer mut.Unlock()

	return channel != nil
}

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}

func TestCleanup_RunsHooksOnceInOrder(t *testing.T) { //nolint:paralleltest
	reset(t)

	var order []int

	BeforeShutdown(func() { order = append(order, 1) })
	BeforeShutdown(func() { order = append(order, 2) })
	BeforeShutdown(func() { order = append(order, 3) })

	Cleanup()
	Cleanup()

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestSetupHandler_Signal(t *testing.T) { //nolint:paralleltest
	for _, sig := range []syscall.Signal{syscall.SIGTERM, syscall.SIGINT} {
		reset(t)

		ctx := SetupHandler(t.Context())
		require.NoError(t, ctx.Err())
		require.True(t, currentChannel())

		var called atomic.Bool

		BeforeShutdown(func() {
			assert.NoError(t, ctx.Err(), "hooks run before cancellation")
			called.Store(true)
		})

		mut.Lock()
		channel <- sig
		mut.Unlock()

		waitDone(t, ctx)
		assert.True(t, called.Load())
		assert.Eventually(t, func() bool { return !currentChannel() }, time.Second, 5*time.Millisecond)
	}
}

func TestShutdown(t *testing.T) { //nolint:paralleltest
	reset(t)

	ctx := SetupHandler(t.Context())

	var called atomic.Bool

	BeforeShutdown(func() { called.Store(true) })

	Shutdown()
	waitDone(t, ctx)

	assert.True(t, called.Load())
}

func TestShutdownWithoutSetup(t *testing.T) { //nolint:paralleltest
	reset(t)

	assert.NotPanics(t, Shutdown)
}

func TestSetupHandler_ParentCanceled(t *testing.T) { //nolint:paralleltest
	reset(t)

	parent, cancel := context.WithCancel(t.Context())
	ctx := SetupHandler(parent)

	var called atomic.Bool

	BeforeShutdown(func() { called.Store(true) })

	cancel()
	waitDone(t, ctx)

	assert.Eventually(t, func() bool { return !currentChannel() }, time.Second, 5*time.Millisecond)
	assert.False(t, called.Load(), "parent cancellation does not run hooks")

	Cleanup()
	assert.True(t, called.Load())
}
