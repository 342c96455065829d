// Package shutdown turns SIGINT and SIGTERM into context cancellation and runs
// cleanup hooks, such as flushing exporters, exactly once.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mut     sync.Mutex     //nolint:gochecknoglobals
	hooks   []func()       //nolint:gochecknoglobals
	channel chan os.Signal //nolint:gochecknoglobals
)

// BeforeShutdown registers a function to be called before the context
// returned by SetupHandler is canceled, or by Cleanup on a normal exit. Hooks
// run in registration order.
func BeforeShutdown(h func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, h)
}

// Shutdown triggers the shutdown process as if a signal had arrived. It does
// nothing when no handler is installed.
func Shutdown() {
	mut.Lock()
	ch := channel
	mut.Unlock()

	if ch == nil {
		return
	}

	select {
	case ch <- os.Interrupt:
	default:
	}
}

// SetupHandler installs a handler for SIGINT and SIGTERM and returns a child
// of parent that is canceled after the hooks have run. The handler is removed
// once the returned context is done for any reason.
func SetupHandler(parent context.Context) context.Context {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	mut.Lock()
	channel = ch
	mut.Unlock()

	ctx, cancel := context.WithCancel(parent)

	go func() {
		select {
		case sig := <-ch:
			slog.Warn("Received " + sig.String() + ", shutting down...")
			Cleanup()
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(ch)

		mut.Lock()
		if channel == ch {
			channel = nil
		}
		mut.Unlock()
	}()

	return ctx
}

// Cleanup runs and forgets the registered hooks.
func Cleanup() {
	mut.Lock()
	pending := hooks
	hooks = nil
	mut.Unlock()

	for _, h := range pending {
		h()
	}
}
