package spi

import (
	"context"
	"runtime"
	"time"
)

// waitUntil polls cond until it holds.
// It stops early on a cond error, on abort, on ctx, or when the wait timeout expires.
func (e *Engine) waitUntil(ctx context.Context, cond func() (bool, error), abort func() bool) error {
	var deadline time.Time
	if e.opts.waitTimeout > 0 {
		deadline = time.Now().Add(e.opts.waitTimeout)
	}

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if abort != nil && abort() {
			return ErrCanceled
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrTimeout
		}

		if e.opts.pollInterval <= 0 {
			runtime.Gosched()
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.opts.pollInterval):
		}
	}
}
