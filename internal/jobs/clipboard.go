package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
	"grabarr/internal/validation"
)

// ErrDuplicateURL means the URL is already on the clipboard list.
var ErrDuplicateURL = errors.New("URL is already in the list")

// AddClipboardURL validates and appends a URL to the clipboard list.
func (m *Manager) AddClipboardURL(url string) error {
	if err := validation.ValidateVideoURL(url); err != nil {
		return err
	}
	if !m.clipboard.add(url) {
		return ErrDuplicateURL
	}
	m.persistClipboard()
	return nil
}

// RemoveClipboardURL drops a URL from the clipboard list.
func (m *Manager) RemoveClipboardURL(url string) bool {
	removed := m.clipboard.remove(url)
	if removed {
		m.persistClipboard()
	}
	return removed
}

// ClipboardEntries returns a snapshot of the clipboard list.
func (m *Manager) ClipboardEntries() []models.ClipboardEntry {
	return m.clipboard.snapshotEntries()
}

// RestoreClipboard loads the persisted clipboard list into memory. Called
// once at startup before any watcher runs.
func (m *Manager) RestoreClipboard() {
	if m.clipStore == nil {
		return
	}
	entries, err := m.clipStore.Load()
	if err != nil {
		logging.W("Could not restore clipboard list: %v", err)
		return
	}
	for _, e := range entries {
		if m.clipboard.add(e.URL) {
			m.clipboard.setStatus(e.URL, e.Status)
		}
	}
	if len(entries) > 0 {
		logging.I("Restored %d clipboard URLs", len(entries))
	}
}

// OnClipboardURL handles one URL detected by the clipboard watcher. Invalid
// and duplicate URLs are ignored silently since the watcher re-reports the
// clipboard's content on every change.
func (m *Manager) OnClipboardURL(ctx context.Context, url string) {
	if err := validation.ValidateVideoURL(url); err != nil {
		return
	}
	if !m.clipboard.add(url) {
		return
	}
	logging.I("Clipboard URL detected: %s", url)
	m.persistClipboard()

	if m.settings.AutoDownload {
		m.advanceAutoDownload(ctx)
	}
}

// advanceAutoDownload starts the next pending clipboard download, keeping the
// invariant that at most one clipboard entry is ever downloading. Later URLs
// stay pending until the active one finishes, at which point the completion
// path calls back in here.
func (m *Manager) advanceAutoDownload(ctx context.Context) {
	url, ok := m.clipboard.firstPending()
	if !ok {
		m.clipboard.finishAuto()
		return
	}
	if !m.clipboard.tryStartAutoDownload(url) {
		return // another entry is mid-download; it will chain to this one
	}

	j := m.clipboardJob(url)
	if !m.download.tryAcquire(j.Kind, j.ID, m.now()) {
		// A manual download holds the slot; put the entry back and let the
		// next clipboard event retry.
		m.clipboard.setStatus(url, models.ClipPending)
		m.clipboard.finishAuto()
		return
	}

	if err := m.pool.Submit(func() { m.runClipboardItem(ctx, j) }); err != nil {
		m.download.release()
		m.clipboard.setStatus(url, models.ClipPending)
		m.clipboard.finishAuto()
		logging.E("Could not queue clipboard download: %v", err)
	}
}

func (m *Manager) runClipboardItem(ctx context.Context, j *models.Job) {
	outputPath, err := m.executeDownload(ctx, j)
	m.finishDownloadSlot(j, outputPath, err)

	m.clipboard.setStatus(j.Target, clipStatusFor(err))
	m.persistClipboard()

	if m.clipboard.autoRunning() {
		m.advanceAutoDownload(ctx)
	}
}

// clipStatusFor maps a download result to the entry's list status. A stopped
// entry goes back to pending so the next run retries it.
func clipStatusFor(err error) models.ClipboardStatus {
	switch {
	case err == nil:
		return models.ClipCompleted
	case errors.Is(err, ErrStopped):
		return models.ClipPending
	default:
		return models.ClipFailed
	}
}

// DownloadPendingClipboard runs every pending clipboard URL sequentially on a
// single pool task. Returns ErrBusy when a batch is already in flight.
func (m *Manager) DownloadPendingClipboard(ctx context.Context) error {
	if !m.clipboard.tryStartBatch() {
		return ErrBusy
	}
	if err := m.pool.Submit(func() { m.runClipboardBatch(ctx) }); err != nil {
		m.clipboard.finishBatch()
		return err
	}
	return nil
}

func (m *Manager) runClipboardBatch(ctx context.Context) {
	defer m.clipboard.finishBatch()

	urls := m.clipboard.pendingURLs()
	logging.I("Starting clipboard batch of %d URLs", len(urls))

	for _, url := range urls {
		if ctx.Err() != nil || !m.clipboard.batchRunning() {
			break
		}

		j := m.clipboardJob(url)
		if !m.download.tryAcquire(j.Kind, j.ID, m.now()) {
			logging.W("Download slot busy, clipboard batch aborted at %s", url)
			break
		}
		m.clipboard.setStatus(url, models.ClipDownloading)

		outputPath, err := m.executeDownload(ctx, j)
		m.finishDownloadSlot(j, outputPath, err)

		status := clipStatusFor(err)
		if status == models.ClipFailed {
			logging.E("Clipboard download failed for %s: %v", url, err)
		}
		m.clipboard.setStatus(url, status)
		m.persistClipboard()
	}

	completed, failed := m.clipboard.counts()
	m.emit(models.StatusUpdate{
		Kind:   models.KindClipboardItem,
		Status: models.StatusCompleted,
		Message: fmt.Sprintf("Clipboard batch finished: %d completed, %d failed",
			completed, failed),
	})
}

// StopClipboard halts batch and auto-download processing and terminates any
// clipboard download in flight.
func (m *Manager) StopClipboard() bool {
	stopped := m.clipboard.stopAll()
	// Only terminate the slot holder when it is one of ours; a manual
	// download sharing the slot keeps running.
	if kind, active := m.download.activeKind(); active && kind == models.KindClipboardItem {
		stopped = m.StopActive("clipboard processing stopped") || stopped
	}
	return stopped
}

func (m *Manager) clipboardJob(url string) *models.Job {
	return &models.Job{
		ID:         uuid.NewString(),
		Kind:       models.KindClipboardItem,
		Target:     url,
		Quality:    m.settings.Quality,
		Volume:     m.settings.Volume,
		SpeedLimit: m.settings.SpeedLimit,
		OutputDir:  m.settings.DownloadDir,
		CreatedAt:  m.now(),
	}
}

func (m *Manager) persistClipboard() {
	if m.clipStore == nil {
		return
	}
	if err := m.clipStore.Save(m.clipboard.snapshotEntries()); err != nil {
		logging.E("Failed to save clipboard list: %v", err)
	}
}
