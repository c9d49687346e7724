// Package state keeps the latest job status visible to the control surfaces.
package state

import (
	"sync"

	"grabarr/internal/models"
)

// Board holds the most recent status event per job kind. The event loop is
// the only writer; HTTP handlers and the CLI read snapshots.
type Board struct {
	mu     sync.RWMutex
	latest map[models.JobKind]models.StatusUpdate
}

// NewBoard returns an empty Board.
func NewBoard() *Board {
	return &Board{latest: make(map[models.JobKind]models.StatusUpdate)}
}

// Apply records an event as the kind's latest.
func (b *Board) Apply(u models.StatusUpdate) {
	b.mu.Lock()
	b.latest[u.Kind] = u
	b.mu.Unlock()
}

// Latest returns the most recent event for a kind.
func (b *Board) Latest(kind models.JobKind) (models.StatusUpdate, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.latest[kind]
	return u, ok
}

// Snapshot returns a copy of every kind's latest event.
func (b *Board) Snapshot() map[models.JobKind]models.StatusUpdate {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[models.JobKind]models.StatusUpdate, len(b.latest))
	for k, v := range b.latest {
		out[k] = v
	}
	return out
}
