package summarize

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// DefaultMaxRetries bounds retries of a single chunk request.
const DefaultMaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := min(time.Duration(1<<uint(attempt))*time.Second, 30*time.Second)
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
