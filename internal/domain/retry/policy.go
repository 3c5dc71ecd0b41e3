// Package retry defines the retry policy applied to upstream calls.
package retry

import (
	"context"
	"time"
)

// Policy defines a retry strategy with linear backoff: the delay before
// attempt n is n times BaseDelay.
type Policy struct {
	// MaxAttempts is the total number of attempts, first try included.
	MaxAttempts int
	BaseDelay   time.Duration
	// Retryable classifies errors. A nil predicate retries everything.
	Retryable func(error) bool
}

// DefaultPolicy matches the upstream client contract: three attempts
// total, one second base delay.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Retryable:   retryable,
	}
}

// Delay returns the backoff before the given attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return p.BaseDelay * time.Duration(attempt)
}

// ExecuteWithResult runs fn under the policy. Non-retryable errors
// propagate immediately; retryable ones are retried up to MaxAttempts
// with linear backoff. Context cancellation aborts the wait.
func ExecuteWithResult[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		delay := p.Delay(attempt)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return zero, lastErr
}
