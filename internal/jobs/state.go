// Package jobs holds the per-job-kind mutable state machines and the
// execution engine driving download, transform, clipboard and upload jobs.
//
// Each logical state group (download, clipboard, auto-download, upload,
// fetch) carries its own lock and is touched only through accessor methods,
// so unrelated subsystems never serialize on each other. No lock is ever
// held across a blocking subprocess call.
package jobs

import (
	"sync"
	"time"

	"grabarr/internal/models"
	"grabarr/internal/proc"
)

// downloadState guards the single active download/transform slot. Single
// downloads, playlist downloads and local transforms share it since only one
// may run at a time.
type downloadState struct {
	mu           sync.Mutex
	active       bool
	kind         models.JobKind
	jobID        string
	handle       *proc.Handle
	startedAt    time.Time
	lastProgress time.Time
	stopping     bool
	stopReason   string
}

// tryAcquire claims the download slot. Returns false when a job of the shared
// group is already active.
func (s *downloadState) tryAcquire(kind models.JobKind, jobID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return false
	}
	s.active = true
	s.kind = kind
	s.jobID = jobID
	s.handle = nil // clear stale handle from a previous run
	s.startedAt = now
	s.lastProgress = now
	s.stopping = false
	s.stopReason = ""
	return true
}

// release clears the slot and returns the handle that was attached, if any.
func (s *downloadState) release() *proc.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.handle
	s.active = false
	s.handle = nil
	s.jobID = ""
	return h
}

func (s *downloadState) attach(h *proc.Handle) {
	s.mu.Lock()
	s.handle = h
	s.mu.Unlock()
}

func (s *downloadState) markProgress(now time.Time) {
	s.mu.Lock()
	s.lastProgress = now
	s.mu.Unlock()
}

func (s *downloadState) snapshot() (active bool, startedAt, lastProgress time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.startedAt, s.lastProgress
}

func (s *downloadState) currentHandle() *proc.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *downloadState) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *downloadState) activeKind() (models.JobKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind, s.active
}

// markStopping records a stop request and its reason before the handle is
// signalled, so the runner can tell a forced stop from a tool failure.
func (s *downloadState) markStopping(reason string) {
	s.mu.Lock()
	s.stopping = true
	s.stopReason = reason
	s.mu.Unlock()
}

func (s *downloadState) stoppingReason() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopReason, s.stopping
}

// clipboardState guards the clipboard URL list and the two clipboard
// processing modes (sequential batch, auto-download).
type clipboardState struct {
	mu      sync.Mutex
	entries []*models.ClipboardEntry
	index   map[string]*models.ClipboardEntry

	batchActive bool
	autoActive  bool
}

func newClipboardState() clipboardState {
	return clipboardState{index: make(map[string]*models.ClipboardEntry)}
}

// add inserts a new pending entry. Entries are unique by URL; duplicates are
// rejected.
func (s *clipboardState) add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[url]; exists {
		return false
	}
	e := &models.ClipboardEntry{URL: url, Status: models.ClipPending}
	s.entries = append(s.entries, e)
	s.index[url] = e
	return true
}

func (s *clipboardState) remove(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[url]; !exists {
		return false
	}
	delete(s.index, url)
	for i, e := range s.entries {
		if e.URL == url {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return true
}

func (s *clipboardState) setStatus(url string, status models.ClipboardStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.index[url]; ok {
		e.Status = status
	}
}

// tryStartAutoDownload atomically checks the single-flight invariant: if any
// entry is already downloading, the new URL stays pending and false is
// returned. Otherwise the entry is marked downloading and the auto mode flag
// set, all under one lock acquisition.
func (s *clipboardState) tryStartAutoDownload(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Status == models.ClipDownloading {
			return false
		}
	}
	e, ok := s.index[url]
	if !ok || e.Status != models.ClipPending {
		return false
	}
	e.Status = models.ClipDownloading
	s.autoActive = true
	return true
}

func (s *clipboardState) firstPending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Status == models.ClipPending {
			return e.URL, true
		}
	}
	return "", false
}

func (s *clipboardState) pendingURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	urls := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Status == models.ClipPending {
			urls = append(urls, e.URL)
		}
	}
	return urls
}

// snapshotEntries returns a copy safe to hand to persistence or the HTTP
// surface.
func (s *clipboardState) snapshotEntries() []models.ClipboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ClipboardEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out
}

func (s *clipboardState) counts() (completed, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		switch e.Status {
		case models.ClipCompleted:
			completed++
		case models.ClipFailed:
			failed++
		}
	}
	return completed, failed
}

func (s *clipboardState) tryStartBatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batchActive {
		return false
	}
	s.batchActive = true
	return true
}

func (s *clipboardState) batchRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batchActive
}

func (s *clipboardState) autoRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoActive
}

func (s *clipboardState) stopAll() (stopped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stopped = s.batchActive || s.autoActive
	s.batchActive = false
	s.autoActive = false
	return stopped
}

func (s *clipboardState) finishBatch() {
	s.mu.Lock()
	s.batchActive = false
	s.mu.Unlock()
}

func (s *clipboardState) finishAuto() {
	s.mu.Lock()
	s.autoActive = false
	s.mu.Unlock()
}

// uploadState guards the sequential upload queue.
type uploadState struct {
	mu     sync.Mutex
	active bool
	queue  []string
}

func (s *uploadState) enqueue(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.queue {
		if p == path {
			return false
		}
	}
	s.queue = append(s.queue, path)
	return true
}

func (s *uploadState) dequeue() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return "", false
	}
	path := s.queue[0]
	s.queue = s.queue[1:]
	return path, true
}

func (s *uploadState) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return false
	}
	s.active = true
	return true
}

func (s *uploadState) release() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

func (s *uploadState) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *uploadState) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// fetchState guards metadata fetch exclusivity (duration/title/size probes).
type fetchState struct {
	mu     sync.Mutex
	active bool
}

func (s *fetchState) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return false
	}
	s.active = true
	return true
}

func (s *fetchState) release() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

func (s *fetchState) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
