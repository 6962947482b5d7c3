// Package retry implements bounded retries with capped exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Policy controls how many attempts are made and how long to wait between them.
// The delay before attempt n (zero-based) is min(BaseDelay * 2^n, MaxDelay).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	OnRetry     func(attempt int, err error, backoff time.Duration)
}

// Backoff returns the delay to wait after the given zero-based attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if d > p.MaxDelay || d <= 0 {
		return p.MaxDelay
	}
	return d
}

// Do runs op until it succeeds or the policy's attempts are exhausted. The
// final error wraps the last underlying failure. A cancelled context aborts
// the wait between attempts, never an attempt in progress.
func Do[T any](ctx context.Context, clock clockwork.Clock, p Policy, op func() (T, error)) (T, error) {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}
		lastErr = err

		if attempt == p.MaxAttempts-1 {
			break
		}

		backoff := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err, backoff)
		}

		select {
		case <-clock.After(backoff):
		case <-ctx.Done():
			var zero T
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	var zero T
	return zero, fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, lastErr)
}

// DoVoid is Do for operations without a result value.
func DoVoid(ctx context.Context, clock clockwork.Clock, p Policy, op func() error) error {
	_, err := Do(ctx, clock, p, func() (struct{}, error) { return struct{}{}, op() })
	return err
}
