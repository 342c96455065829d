// Package simultaneously runs independent functions on a bounded worker pool
// and gathers their errors.
package simultaneously

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/alitto/pond/v2"
)

// ErrPanicRecovered is the base error for panic recovery.
var ErrPanicRecovered = errors.New("recovered from panic")

// DoCtx runs the callbacks on a pool of at most maxConcurrent workers and
// waits for all of them. A maxConcurrent below 1 runs everything at once.
//
// The first failure cancels the context handed to the others; callbacks that
// have not started yet return the context error without running. Panics are
// recovered and reported as errors wrapping ErrPanicRecovered. Every error is
// returned, joined with errors.Join when there is more than one.
func DoCtx(ctx context.Context, maxConcurrent int, callbacks ...func(ctx context.Context) error) error {
	if len(callbacks) == 0 {
		return nil
	}

	if maxConcurrent < 1 || maxConcurrent > len(callbacks) {
		maxConcurrent = len(callbacks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := pond.NewPool(maxConcurrent)
	defer pool.StopAndWait()

	tasks := make([]pond.Task, len(callbacks))

	for i, fn := range callbacks {
		tasks[i] = pool.SubmitErr(func() error {
			err := invoke(ctx, fn)
			if err != nil {
				cancel()
			}

			return err
		})
	}

	var errs []error

	for _, task := range tasks {
		if err := task.Wait(); err != nil {
			errs = append(errs, err)
		}
	}

	return combineErrors(errs)
}

// Map applies f to every value on a bounded pool. outputs[i] corresponds to
// values[i]. On error the outputs are discarded.
func Map[A, B any](
	ctx context.Context,
	maxConcurrent int,
	values []A,
	f func(ctx context.Context, value A) (B, error),
) ([]B, error) {
	outputs := make([]B, len(values))
	callbacks := make([]func(context.Context) error, len(values))

	for i, value := range values {
		callbacks[i] = func(ctx context.Context) error {
			out, err := f(ctx, value)
			if err != nil {
				return err
			}

			outputs[i] = out

			return nil
		}
	}

	if err := DoCtx(ctx, maxConcurrent, callbacks...); err != nil {
		return nil, err
	}

	return outputs, nil
}

func invoke(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w\n%s", ErrPanicRecovered, e, debug.Stack())
			} else {
				err = fmt.Errorf("%w: %v\n%s", ErrPanicRecovered, r, debug.Stack())
			}
		}
	}()

	return fn(ctx)
}

func combineErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
