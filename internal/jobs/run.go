package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grabarr/internal/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/dlcmd"
	"grabarr/internal/models"
	"grabarr/internal/parsing"
	"grabarr/internal/proc"
	"grabarr/internal/utils/logging"
)

var (
	// ErrBusy means another job of the same exclusivity group is running.
	ErrBusy = errors.New("another job is already running")

	// ErrStopped means the job was terminated before completing.
	ErrStopped = errors.New("job was stopped")
)

// StartDownload claims the download slot and runs a single or playlist
// download on the pool. Returns ErrBusy without side effects when the slot is
// taken.
func (m *Manager) StartDownload(ctx context.Context, j *models.Job) error {
	if !m.download.tryAcquire(j.Kind, j.ID, m.now()) {
		return ErrBusy
	}
	if err := m.pool.Submit(func() { m.runDownload(ctx, j) }); err != nil {
		m.download.release()
		return err
	}
	return nil
}

// StartTransform claims the download slot and runs a local transform on the
// pool. Transforms share the slot with downloads.
func (m *Manager) StartTransform(ctx context.Context, j *models.Job) error {
	if !m.download.tryAcquire(j.Kind, j.ID, m.now()) {
		return ErrBusy
	}
	if err := m.pool.Submit(func() { m.runTransform(ctx, j) }); err != nil {
		m.download.release()
		return err
	}
	return nil
}

func (m *Manager) runDownload(ctx context.Context, j *models.Job) {
	outputPath, err := m.executeDownload(ctx, j)
	m.finishDownloadSlot(j, outputPath, err)
}

// executeDownload spawns the downloader and pumps its output through the
// progress parser until exit. Returns the final destination path when the
// tool reported one.
func (m *Manager) executeDownload(ctx context.Context, j *models.Job) (string, error) {
	args := command.DownloadArgs(j)
	if m.settings.CookieFile != "" {
		args = append([]string{dlcmd.Cookies, m.settings.CookieFile}, args...)
	}

	h, err := proc.Start(ctx, m.settings.Tools.Downloader, args, true)
	if err != nil {
		return "", err
	}
	m.download.attach(h)

	m.emit(models.StatusUpdate{
		JobID: j.ID, Kind: j.Kind, Target: j.Target,
		Status: models.StatusRunning, Message: parsing.PhaseStarting.Message(),
	})

	var outputPath string
	scanner := h.Scanner()
	for scanner.Scan() {
		line := scanner.Text()
		logging.D(4, "%s: %s", m.settings.Tools.Downloader, line)

		if dest, ok := parseDestination(line); ok {
			outputPath = dest
		}

		u := parsing.ParseLine(line)
		if !u.Progress() {
			continue
		}
		m.download.markProgress(m.now())

		update := models.StatusUpdate{
			JobID: j.ID, Kind: j.Kind, Target: j.Target,
			Status: models.StatusRunning,
			Size:   u.Size, Speed: u.Speed, ETA: u.ETA,
		}
		if u.HasPercent {
			update.Percent = u.Percent
		}
		if u.Phase != parsing.PhaseNone {
			update.Message = u.Phase.Message()
		}
		m.emit(update)
	}

	if err := h.Wait(); err != nil {
		if _, stopping := m.download.stoppingReason(); ctx.Err() != nil || stopping {
			return outputPath, ErrStopped
		}
		return outputPath, fmt.Errorf("downloader exited with error: %w", err)
	}
	return outputPath, nil
}

func (m *Manager) runTransform(ctx context.Context, j *models.Job) {
	outputPath := command.TransformOutputPath(j)
	err := m.executeTransform(ctx, j, outputPath)
	m.finishDownloadSlot(j, outputPath, err)
}

// executeTransform spawns the transcoder over a local file and converts its
// machine-readable progress stream into percent updates against the known
// output duration.
func (m *Manager) executeTransform(ctx context.Context, j *models.Job, outputPath string) error {
	total := m.transformDuration(ctx, j)

	h, err := proc.Start(ctx, m.settings.Tools.Transcoder, command.TransformArgs(j, outputPath), false)
	if err != nil {
		return err
	}
	m.download.attach(h)

	m.emit(models.StatusUpdate{
		JobID: j.ID, Kind: j.Kind, Target: j.Target,
		Status: models.StatusRunning, Message: parsing.PhaseTranscoding.Message(),
	})

	scanner := h.Scanner()
	for scanner.Scan() {
		seconds, ok := parsing.ParseTranscodeProgress(scanner.Text())
		if !ok {
			continue
		}
		m.download.markProgress(m.now())

		update := models.StatusUpdate{
			JobID: j.ID, Kind: j.Kind, Target: j.Target,
			Status: models.StatusRunning, Message: parsing.PhaseTranscoding.Message(),
		}
		if total > 0 {
			pct := seconds / float64(total) * consts.ProgressComplete
			if pct > consts.ProgressComplete {
				pct = consts.ProgressComplete
			}
			update.Percent = pct
		}
		m.emit(update)
	}

	if err := h.Wait(); err != nil {
		if _, stopping := m.download.stoppingReason(); ctx.Err() != nil || stopping {
			return ErrStopped
		}
		return fmt.Errorf("transcoder exited with error: %w (%s)", err, strings.TrimSpace(h.Stderr()))
	}
	return nil
}

// transformDuration resolves the expected output length in seconds for
// percent computation. A trim window bounds it directly; otherwise the source
// is probed. Zero means percent stays unreported.
func (m *Manager) transformDuration(ctx context.Context, j *models.Job) int {
	if j.TrimEnabled() {
		return j.Trim.Duration()
	}
	if j.Duration > 0 {
		return j.Duration
	}
	if m.fetcher == nil {
		return 0
	}
	d, err := m.fetcher.LocalDuration(ctx, j.Target)
	if err != nil {
		logging.D(1, "Could not probe duration of %q: %v", j.Target, err)
		return 0
	}
	return d
}

// finishDownloadSlot releases the shared slot, records history, emits the
// terminal event and chains the auto-upload when configured.
func (m *Manager) finishDownloadSlot(j *models.Job, outputPath string, err error) {
	reason, stopping := m.download.stoppingReason()
	if h := m.download.release(); h != nil {
		h.StopDefault() // closes pipes; no-op signal when already exited
	}

	status := models.StatusCompleted
	message := "Completed"
	switch {
	// A requested stop makes the tool die with a signal exit; report that as
	// stopped, not as a tool failure.
	case errors.Is(err, ErrStopped), stopping && err != nil:
		status = models.StatusStopped
		message = "Stopped"
		if reason != "" {
			message = "Stopped: " + reason
		}
		err = nil
	case err != nil:
		status = models.StatusFailed
		message = err.Error()
	}

	m.recordDownload(j, outputPath, status)
	m.emit(models.StatusUpdate{
		JobID: j.ID, Kind: j.Kind, Target: j.Target,
		Status: status, Percent: percentFor(status), Message: message, Err: err,
	})

	if status == models.StatusCompleted {
		logging.S("%s finished: %s", j.Kind, j.Target)
		// Playlists announce many destinations; there is no single file to
		// chain, so auto-upload applies to single-output jobs only.
		if m.settings.AutoUpload && outputPath != "" && j.Kind != models.KindPlaylistDownload {
			if upErr := m.EnqueueUpload(outputPath); upErr != nil {
				logging.E("Auto-upload of %q skipped: %v", outputPath, upErr)
			}
		}
	}
}

func percentFor(status models.JobStatus) float64 {
	if status == models.StatusCompleted {
		return consts.ProgressComplete
	}
	return 0
}

// parseDestination pulls the output file path out of the downloader's
// destination announcements, covering both the plain form
// ("[download] Destination: path") and the merge form
// ("[Merger] Merging formats into \"path\"").
func parseDestination(line string) (string, bool) {
	if _, after, found := strings.Cut(line, "Destination: "); found {
		return strings.TrimSpace(after), true
	}
	if _, after, found := strings.Cut(line, "Merging formats into \""); found {
		if path, _, ok := strings.Cut(after, "\""); ok {
			return path, true
		}
	}
	return "", false
}
