// Package watchdog force-stops download jobs that run too long or stop
// making progress.
package watchdog

import (
	"context"
	"time"

	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// Reason strings reported when the monitor fires.
const (
	ReasonTimeLimit = "exceeded time limit"
	ReasonStalled   = "stalled, no progress"
)

// State exposes the job slot timing the monitor watches. It must be backed by
// the same lock the progress loop updates through.
type State interface {
	DownloadSnapshot() (active bool, startedAt, lastProgress time.Time)
}

// Stopper terminates the watched job.
type Stopper interface {
	StopActive(reason string) bool
}

// Monitor checks the active download against an absolute runtime limit and a
// stall window at a fixed interval.
type Monitor struct {
	state   State
	stopper Stopper

	interval time.Duration
	absolute time.Duration
	stall    time.Duration
	now      func() time.Time
}

// New builds a Monitor with the standard thresholds.
func New(state State, stopper Stopper) *Monitor {
	return &Monitor{
		state:    state,
		stopper:  stopper,
		interval: consts.TimeoutCheckInterval,
		absolute: consts.DownloadTimeout,
		stall:    consts.StallTimeout,
		now:      time.Now,
	}
}

// Run checks at every interval until the context ends. Idle intervals (no
// active download) are no-ops.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logging.D(2, "Timeout monitor running (absolute %v, stall %v)", m.absolute, m.stall)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if reason, fired := m.Check(m.now()); fired {
				logging.W("Force-stopping download: %s", reason)
				m.stopper.StopActive(reason)
			}
		}
	}
}

// Check evaluates both conditions against the given instant and returns the
// stop reason when one fired. The stall condition wins when both hold.
func (m *Monitor) Check(now time.Time) (string, bool) {
	active, startedAt, lastProgress := m.state.DownloadSnapshot()
	if !active {
		return "", false
	}
	if now.Sub(lastProgress) > m.stall {
		return ReasonStalled, true
	}
	if now.Sub(startedAt) > m.absolute {
		return ReasonTimeLimit, true
	}
	return "", false
}
