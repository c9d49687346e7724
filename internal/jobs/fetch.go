package jobs

import (
	"context"
	"path/filepath"
	"strings"

	"grabarr/internal/fetch"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
	"grabarr/internal/validation"
)

// FetchMetadata resolves pre-flight metadata for a job's target. Only one
// fetch runs at a time; concurrent callers get ErrBusy rather than stacking
// probe subprocesses.
func (m *Manager) FetchMetadata(ctx context.Context, j *models.Job) (fetch.Metadata, error) {
	if !m.fetches.tryAcquire() {
		return fetch.Metadata{}, ErrBusy
	}
	defer m.fetches.release()

	if validation.IsLocalFile(j.Target) {
		d, err := m.fetcher.LocalDuration(ctx, j.Target)
		if err != nil {
			return fetch.Metadata{}, err
		}
		return fetch.Metadata{Duration: d}, nil
	}

	md, err := m.fetcher.Remote(ctx, j)
	if err != nil {
		return fetch.Metadata{}, err
	}
	if md.Size > 0 && j.TrimEnabled() && md.Duration > 0 {
		md.Size = fetch.EstimateTrimmedSize(md.Size, md.Duration, j.Trim.Duration())
	}
	return md, nil
}

// SourceInfo resolves title and duration for a preview source using the
// cheaper single-field probes. Best effort; failed probes and a busy fetch
// slot yield zero values.
func (m *Manager) SourceInfo(ctx context.Context, target string) (string, int) {
	if !m.fetches.tryAcquire() {
		return "", 0
	}
	defer m.fetches.release()

	if validation.IsLocalFile(target) {
		d, err := m.fetcher.LocalDuration(ctx, target)
		if err != nil {
			logging.D(1, "Could not probe %q: %v", target, err)
			return filepath.Base(target), 0
		}
		return filepath.Base(target), d
	}

	title, err := m.fetcher.Title(ctx, target)
	if err != nil {
		logging.D(1, "Could not fetch title of %q: %v", target, err)
	}
	d, err := m.fetcher.Duration(ctx, target)
	if err != nil {
		logging.D(1, "Could not fetch duration of %q: %v", target, err)
	}
	return strings.TrimSpace(title), d
}
