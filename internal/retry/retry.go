// Package retry applies a bounded retry policy with linear backoff to
// idempotent read-style operations (metadata fetch, frame extraction,
// stream-URL resolution). Downloads and uploads are never retried mid-stream.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// Policy configures retry behaviour. Backoff is linear: attempt n waits
// n * Delay before running.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Default mirrors the program-wide retry settings.
var Default = Policy{
	MaxAttempts: consts.MaxRetryAttempts,
	Delay:       consts.RetryDelay,
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks an error as non-retryable; Do stops immediately on it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op until it succeeds, the policy is exhausted, the error is marked
// permanent, or the context ends.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == p.MaxAttempts {
			break
		}

		logging.W("%s failed (attempt %d/%d), retrying in %v: %v",
			name, attempt, p.MaxAttempts, p.Delay*time.Duration(attempt), err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, p.MaxAttempts, lastErr)
}
