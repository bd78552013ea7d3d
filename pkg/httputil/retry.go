package httputil

import (
	"context"
	"errors"
	"time"

	dasherr "github.com/matzehuels/evdash/pkg/errors"
)

// maxRetryAfter caps how long a server may ask us to wait.
const maxRetryAfter = 30 * time.Second

// RetryableError marks an error as transient so that [Retry] attempts the
// operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// Only errors wrapped with [RetryableError] are retried. A wrapped
// [dasherr.RateLimitedError] stretches the next delay to its Retry-After
// value. Returns the last error if all attempts fail, or ctx.Err() if
// cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			wait := max(delay, retryAfter(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff calls [Retry] with 3 attempts and a 1 second initial
// delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

func retryAfter(err error) time.Duration {
	var rl *dasherr.RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter <= 0 {
		return 0
	}
	return min(time.Duration(rl.RetryAfter)*time.Second, maxRetryAfter)
}
