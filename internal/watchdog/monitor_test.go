package watchdog_test

import (
	"testing"
	"time"

	"grabarr/internal/watchdog"
)

type fakeState struct {
	active       bool
	startedAt    time.Time
	lastProgress time.Time
}

func (f *fakeState) DownloadSnapshot() (bool, time.Time, time.Time) {
	return f.active, f.startedAt, f.lastProgress
}

type fakeStopper struct {
	reasons []string
}

func (f *fakeStopper) StopActive(reason string) bool {
	f.reasons = append(f.reasons, reason)
	return true
}

// TestCheckStall checks that a quiet transfer past the stall window fires
// with the stall reason.
func TestCheckStall(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := &fakeState{active: true, startedAt: start, lastProgress: start.Add(5 * time.Second)}
	m := watchdog.New(st, &fakeStopper{})

	// Just inside the window: nothing fires.
	if reason, fired := m.Check(st.lastProgress.Add(600 * time.Second)); fired {
		t.Fatalf("fired inside the stall window: %q", reason)
	}

	reason, fired := m.Check(st.lastProgress.Add(601 * time.Second))
	if !fired {
		t.Fatal("expected stall to fire")
	}
	if reason != watchdog.ReasonStalled {
		t.Errorf("reason = %q, want %q", reason, watchdog.ReasonStalled)
	}
}

// TestCheckAbsoluteTimeout checks the total-runtime limit with progress still
// flowing.
func TestCheckAbsoluteTimeout(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(3601 * time.Second)
	st := &fakeState{active: true, startedAt: start, lastProgress: now.Add(-time.Second)}
	m := watchdog.New(st, &fakeStopper{})

	reason, fired := m.Check(now)
	if !fired {
		t.Fatal("expected absolute timeout to fire")
	}
	if reason != watchdog.ReasonTimeLimit {
		t.Errorf("reason = %q, want %q", reason, watchdog.ReasonTimeLimit)
	}
}

// TestStallWinsOverTimeout checks that when both conditions hold, the stall
// diagnosis is reported.
func TestStallWinsOverTimeout(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := &fakeState{active: true, startedAt: start, lastProgress: start}
	m := watchdog.New(st, &fakeStopper{})

	reason, fired := m.Check(start.Add(2 * time.Hour))
	if !fired {
		t.Fatal("expected a fire with both conditions over threshold")
	}
	if reason != watchdog.ReasonStalled {
		t.Errorf("reason = %q, want stall to take priority", reason)
	}
}

// TestInactiveNeverFires checks an idle slot is ignored no matter the clock.
func TestInactiveNeverFires(t *testing.T) {
	t.Parallel()

	st := &fakeState{active: false}
	m := watchdog.New(st, &fakeStopper{})

	if reason, fired := m.Check(time.Now().Add(48 * time.Hour)); fired {
		t.Fatalf("idle slot fired: %q", reason)
	}
}
