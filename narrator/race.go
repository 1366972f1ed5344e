package narrator

import (
	"context"
	"time"

	"solo_legend/errors"
)

// Race runs fn and waits for whichever settles first: fn, the timer, or ctx.
//
// When the timer or ctx wins, fn's context is cancelled and its eventual result is
// dropped into a buffered channel nobody reads, so the goroutine always exits.
func Race[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	type settled struct {
		val T
		err error
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan settled, 1)
	go func() {
		v, err := fn(callCtx)
		done <- settled{val: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case s := <-done:
		return s.val, s.err
	case <-timer.C:
		return zero, errors.Newf(errors.CodeTimeout, "no reply within %s", timeout)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
