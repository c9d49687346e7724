package retry_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"grabarr/internal/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, Delay: time.Millisecond}
}

// TestDoEventualSuccess checks that transient failures are retried until the
// operation succeeds.
func TestDoEventualSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := fastPolicy().Do(context.Background(), "flaky op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

// TestDoExhaustion checks the terminal error wraps the last failure and names
// the attempt count.
func TestDoExhaustion(t *testing.T) {
	t.Parallel()

	calls := 0
	last := errors.New("still broken")
	err := fastPolicy().Do(context.Background(), "doomed op", func() error {
		calls++
		return last
	})
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, last) {
		t.Errorf("terminal error does not wrap the last failure: %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("terminal error missing attempt count: %v", err)
	}
}

// TestDoPermanent checks that a permanent error stops retrying immediately
// and is returned unwrapped.
func TestDoPermanent(t *testing.T) {
	t.Parallel()

	calls := 0
	fatal := errors.New("bad input")
	err := fastPolicy().Do(context.Background(), "rejected op", func() error {
		calls++
		return retry.Permanent(fatal)
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retries on permanent)", calls)
	}
	if !errors.Is(err, fatal) {
		t.Fatalf("err = %v, want the original error", err)
	}
}

// TestDoContextCancel checks that cancellation interrupts the backoff wait.
func TestDoContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	policy := retry.Policy{MaxAttempts: 5, Delay: time.Hour}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, "slow op", func() error {
			calls++
			return errors.New("transient")
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

// TestPermanentNil checks the nil passthrough.
func TestPermanentNil(t *testing.T) {
	t.Parallel()

	if retry.Permanent(nil) != nil {
		t.Fatal("Permanent(nil) must be nil")
	}
}
