package errors

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	InitialBackoff    = 100 * time.Millisecond
	MaxBackoff        = 5 * time.Second
	BackoffMultiplier = 2.0
)

// WithRetry runs fn until it succeeds, returns a non-retryable error, or
// maxRetries additional attempts have been made. A RetryAfter hint on the
// error is honoured before the next attempt.
func WithRetry(ctx context.Context, maxRetries uint64, fn func() error) error {
	if fn == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = InitialBackoff
	policy.MaxInterval = MaxBackoff
	policy.Multiplier = BackoffMultiplier
	policy.MaxElapsedTime = 0

	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}

		if wait := RetryAfter(err); wait > 0 {
			select {
			case <-ctx.Done():
				return backoff.Permanent(err)
			case <-time.After(wait):
			}
		}

		return err
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
}

func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Retryable
	}

	return false
}

// RetryAfter returns the wait hint carried by err, or zero.
func RetryAfter(err error) time.Duration {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.RetryAfter
	}

	return 0
}
