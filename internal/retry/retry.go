// Package retry provides a bounded retry combinator with explicit backoff and
// retryability policy, so callers carry no inline attempt-counting state.
package retry

import (
	"context"
	"time"
)

// BackoffFunc returns the delay to wait before the given attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// Linear backs off by attempt × unit: unit, 2×unit, 3×unit, ...
func Linear(unit time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * unit
	}
}

// Do runs fn up to maxAttempts times. After a failed attempt it waits per
// backoff (nil means no wait) unless retryable reports the error as permanent
// (nil retryable retries everything). The last error is returned on
// exhaustion; ctx cancellation aborts the wait and wins over the last error.
func Do(ctx context.Context, maxAttempts int, backoff BackoffFunc, retryable func(error) bool, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}
		var delay time.Duration
		if backoff != nil {
			delay = backoff(attempt)
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}
