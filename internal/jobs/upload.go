package jobs

import (
	"errors"
	"fmt"
	"os"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// ErrUploadTooLarge means the file exceeds the remote host's size limit.
var ErrUploadTooLarge = errors.New("file exceeds the upload size limit")

// EnqueueUpload validates a finished file and appends it to the sequential
// upload queue, waking the queue drainer if idle.
func (m *Manager) EnqueueUpload(path string) error {
	if m.uploader == nil {
		return errors.New("no upload host configured")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot upload %q: %w", path, err)
	}
	if info.Size() > consts.UploadMaxSizeMB*consts.BytesPerMB {
		return fmt.Errorf("%w: %q is %d MB (limit %d MB)",
			ErrUploadTooLarge, path, info.Size()/consts.BytesPerMB, consts.UploadMaxSizeMB)
	}

	if !m.uploads.enqueue(path) {
		return nil // already queued
	}
	logging.I("Queued upload: %s", path)
	m.drainUploads()
	return nil
}

// drainUploads starts the queue drainer unless one is already running.
// Uploads run strictly one at a time, in queue order.
func (m *Manager) drainUploads() {
	if !m.uploads.tryAcquire() {
		return
	}
	if err := m.pool.Submit(m.runUploads); err != nil {
		m.uploads.release()
		logging.E("Could not start upload drainer: %v", err)
	}
}

func (m *Manager) runUploads() {
	defer m.uploads.release()

	for {
		path, ok := m.uploads.dequeue()
		if !ok {
			return
		}
		m.uploadOne(path)
	}
}

func (m *Manager) uploadOne(path string) {
	jobID := path
	m.emit(models.StatusUpdate{
		JobID: jobID, Kind: models.KindUpload, Target: path,
		Status: models.StatusRunning, Message: "Uploading...",
	})

	url, err := m.uploader.Upload(path)

	status := models.StatusCompleted
	message := url
	if err != nil {
		status = models.StatusFailed
		message = err.Error()
		logging.E("Upload failed for %s: %v", path, err)
	} else {
		logging.S("Uploaded %s -> %s", path, url)
	}

	if m.history != nil {
		if histErr := m.history.RecordUpload(path, url, status); histErr != nil {
			logging.E("Failed to record upload history: %v", histErr)
		}
	}

	m.emit(models.StatusUpdate{
		JobID: jobID, Kind: models.KindUpload, Target: path,
		Status: status, Percent: percentFor(status), Message: message, Err: err,
	})
}
