package scraper

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by Poll when the condition never held.
var ErrWaitTimeout = errors.New("condition not met before timeout")

// Bound caps timeout at the time left before ctx's deadline.
// It fails fast when ctx is already done.
func Bound(ctx context.Context, timeout time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			if left <= 0 {
				return 0, context.DeadlineExceeded
			}
			return left, nil
		}
	}
	return timeout, nil
}

// Poll evaluates cond every interval until it reports true, it errors,
// timeout elapses or ctx is done. cond is always evaluated at least once.
func Poll(ctx context.Context, timeout, interval time.Duration, cond func() (bool, error)) error {
	timeout, err := Bound(ctx, timeout)
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrWaitTimeout
		case <-ticker.C:
		}
	}
}
