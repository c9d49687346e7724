package jobs

import (
	"time"

	"grabarr/internal/fetch"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
	"grabarr/internal/worker"
)

// Uploader sends a finished file to the remote host and returns its URL.
type Uploader interface {
	Upload(path string) (string, error)
}

// History records finished work for later inspection.
type History interface {
	RecordDownload(target, outputPath string, kind models.JobKind, status models.JobStatus) error
	RecordUpload(localPath, remoteURL string, status models.JobStatus) error
}

// ClipboardStore persists the clipboard URL list across runs.
type ClipboardStore interface {
	Save(entries []models.ClipboardEntry) error
	Load() ([]models.ClipboardEntry, error)
}

// Manager owns all job state and drives job execution on the shared worker
// pool. One Manager exists per process.
type Manager struct {
	settings models.Settings
	pool     *worker.Pool
	fetcher  *fetch.Service

	download  downloadState
	clipboard clipboardState
	uploads   uploadState
	fetches   fetchState

	uploader  Uploader
	history   History
	clipStore ClipboardStore

	updates chan models.StatusUpdate
	now     func() time.Time
}

// Option customizes Manager construction.
type Option func(*Manager)

// WithUploader installs the remote upload client.
func WithUploader(u Uploader) Option {
	return func(m *Manager) { m.uploader = u }
}

// WithHistory installs the job history recorder.
func WithHistory(h History) Option {
	return func(m *Manager) { m.history = h }
}

// WithClipboardStore installs clipboard list persistence.
func WithClipboardStore(s ClipboardStore) Option {
	return func(m *Manager) { m.clipStore = s }
}

func withClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a Manager over the given pool and settings.
func NewManager(settings models.Settings, pool *worker.Pool, fetcher *fetch.Service, opts ...Option) *Manager {
	m := &Manager{
		settings:  settings,
		pool:      pool,
		fetcher:   fetcher,
		clipboard: newClipboardState(),
		updates:   make(chan models.StatusUpdate, 64),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Updates returns the stream of job status events. A single consumer is
// expected to drain it for the life of the process.
func (m *Manager) Updates() <-chan models.StatusUpdate {
	return m.updates
}

// emit publishes a status event without ever blocking a job runner. When the
// consumer falls behind, intermediate progress events are dropped; terminal
// events always have buffer headroom in practice since progress dominates.
func (m *Manager) emit(u models.StatusUpdate) {
	select {
	case m.updates <- u:
	default:
		logging.D(3, "Dropping status update for %s (%s): consumer behind", u.JobID, u.Status)
	}
}

// DownloadActive reports whether the shared download/transform slot is held.
func (m *Manager) DownloadActive() bool {
	return m.download.isActive()
}

// DownloadSnapshot exposes the active slot's timing for stall monitoring.
func (m *Manager) DownloadSnapshot() (active bool, startedAt, lastProgress time.Time) {
	return m.download.snapshot()
}

// UploadPending reports queued upload count.
func (m *Manager) UploadPending() int {
	return m.uploads.pending()
}

// UploadActive reports whether an upload is in flight.
func (m *Manager) UploadActive() bool {
	return m.uploads.isActive()
}

// FetchActive reports whether a metadata fetch is in flight.
func (m *Manager) FetchActive() bool {
	return m.fetches.isActive()
}

// StopActive terminates the running download or transform, if any, recording
// the reason in the emitted stopped event. Used by the user-facing stop
// control and by the timeout monitor.
func (m *Manager) StopActive(reason string) bool {
	h := m.download.currentHandle()
	if h == nil {
		return false
	}
	logging.W("Stopping active job after %s: %s", time.Since(h.StartedAt()).Round(time.Second), reason)
	m.download.markStopping(reason)
	h.StopDefault()
	return true
}

// Shutdown stops whatever is running so the pool can drain quickly.
func (m *Manager) Shutdown() {
	m.clipboard.stopAll()
	m.StopActive("shutting down")
	if m.clipStore != nil {
		if err := m.clipStore.Save(m.clipboard.snapshotEntries()); err != nil {
			logging.E("Failed to save clipboard list: %v", err)
		}
	}
}

func (m *Manager) recordDownload(j *models.Job, outputPath string, status models.JobStatus) {
	if m.history == nil {
		return
	}
	if err := m.history.RecordDownload(j.Target, outputPath, j.Kind, status); err != nil {
		logging.E("Failed to record job history: %v", err)
	}
}
