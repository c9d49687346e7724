package state_test

import (
	"testing"

	"grabarr/internal/models"
	"grabarr/internal/state"
)

// TestBoardLatestPerKind checks that each kind keeps only its newest event.
func TestBoardLatestPerKind(t *testing.T) {
	t.Parallel()

	b := state.NewBoard()

	b.Apply(models.StatusUpdate{Kind: models.KindSingleDownload, Status: models.StatusRunning, Percent: 10})
	b.Apply(models.StatusUpdate{Kind: models.KindSingleDownload, Status: models.StatusRunning, Percent: 60})
	b.Apply(models.StatusUpdate{Kind: models.KindUpload, Status: models.StatusCompleted})

	u, ok := b.Latest(models.KindSingleDownload)
	if !ok || u.Percent != 60 {
		t.Fatalf("latest download = (%+v, %v), want the 60%% event", u, ok)
	}

	if _, ok := b.Latest(models.KindLocalTransform); ok {
		t.Fatal("unseen kind reported a latest event")
	}

	snap := b.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d kinds, want 2", len(snap))
	}

	// Snapshot is a copy; mutating it must not affect the board.
	snap[models.KindSingleDownload] = models.StatusUpdate{Percent: 0}
	if u, _ := b.Latest(models.KindSingleDownload); u.Percent != 60 {
		t.Fatal("snapshot mutation leaked into the board")
	}
}
