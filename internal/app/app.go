// Package app assembles Grabarr's subsystems and runs them.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"grabarr/internal/clipboard"
	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/setup"
	"grabarr/internal/fetch"
	"grabarr/internal/file"
	"grabarr/internal/jobs"
	"grabarr/internal/models"
	"grabarr/internal/preview"
	"grabarr/internal/repo"
	"grabarr/internal/server"
	"grabarr/internal/state"
	"grabarr/internal/upload"
	"grabarr/internal/utils/logging"
	"grabarr/internal/watchdog"
	"grabarr/internal/worker"
)

// App owns every long-lived subsystem for one Grabarr run.
type App struct {
	settings models.Settings

	pool       *worker.Pool
	manager    *jobs.Manager
	monitor    *watchdog.Monitor
	board      *state.Board
	history    *repo.HistoryStore
	extractor  *preview.Extractor
	previewDir string
}

// New wires the subsystems together. The database may be nil for runs that
// do not record history.
func New(settings models.Settings, db *sql.DB) (*App, error) {
	file.CleanupOrphanPreviewDirs(consts.TempDirMaxAge)

	previewDir, err := file.NewPreviewDir()
	if err != nil {
		return nil, fmt.Errorf("could not create preview directory: %w", err)
	}

	pool := worker.NewPool(consts.MaxWorkerThreads)
	fetcher := fetch.NewService(settings.Tools)

	opts := []jobs.Option{
		jobs.WithClipboardStore(file.NewClipboardList(setup.ClipboardListPath)),
	}

	var history *repo.HistoryStore
	if db != nil {
		history = repo.GetHistoryStore(db)
		opts = append(opts, jobs.WithHistory(history))
	}
	if settings.AutoUpload || settings.UploadHost != "" {
		opts = append(opts, jobs.WithUploader(upload.NewClient(settings.UploadHost)))
	}

	manager := jobs.NewManager(settings, pool, fetcher, opts...)
	manager.RestoreClipboard()

	a := &App{
		settings:   settings,
		pool:       pool,
		manager:    manager,
		monitor:    watchdog.New(manager, manager),
		board:      state.NewBoard(),
		history:    history,
		extractor:  preview.NewExtractor(preview.NewCache(consts.PreviewCacheSize), previewDir, settings.Tools),
		previewDir: previewDir,
	}
	return a, nil
}

// Manager exposes the job manager for one-shot CLI commands.
func (a *App) Manager() *jobs.Manager {
	return a.manager
}

// Serve runs the daemon: the watchdog, the event loop, the clipboard
// watcher when auto-download is on, and the HTTP control API. Blocks until
// the context ends, then shuts everything down.
func (a *App) Serve(ctx context.Context, port string) error {
	go a.monitor.Run(ctx)
	go a.eventLoop(ctx)

	if a.settings.AutoDownload {
		watcher := clipboard.NewWatcher(func(text string) {
			a.manager.OnClipboardURL(ctx, text)
		})
		go watcher.Run(ctx)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server.NewRouter(a.manager, a.board, a.history, a.extractor),
	}

	errc := make(chan error, 1)
	go func() {
		logging.S("Grabarr control API listening on http://localhost%s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		a.Shutdown()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), consts.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.W("HTTP shutdown: %v", err)
	}

	a.Shutdown()
	return nil
}

// Watch runs the clipboard watcher and downloads every copied URL until the
// context ends. No HTTP surface; the watch command's standalone mode.
func (a *App) Watch(ctx context.Context) error {
	go a.monitor.Run(ctx)
	go a.eventLoop(ctx)

	watcher := clipboard.NewWatcher(func(text string) {
		a.manager.OnClipboardURL(ctx, text)
	})
	watcher.Run(ctx)

	a.Shutdown()
	return nil
}

// eventLoop is the single consumer of job status events. It mirrors each
// event onto the board and logs state transitions.
func (a *App) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-a.manager.Updates():
			a.board.Apply(u)
			logStatus(u)
		}
	}
}

func logStatus(u models.StatusUpdate) {
	switch {
	case u.Status == models.StatusFailed:
		logging.E("%s failed for %s: %s", u.Kind, u.Target, u.Message)
	case u.Status.Finished():
		logging.I("%s %s: %s", u.Kind, u.Status, u.Target)
	case u.Message != "":
		logging.D(1, "%s: %s", u.Kind, u.Message)
	}
}

// RunAndWait executes one job to completion, printing progress, for the
// one-shot CLI commands. The app's event loop must not be running; this is
// the sole consumer of status events.
func (a *App) RunAndWait(ctx context.Context, j *models.Job, start func(context.Context, *models.Job) error) error {
	go a.monitor.Run(ctx)

	if err := start(ctx, j); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			a.manager.StopActive("interrupted")
			// Drain until the terminal event so pipes are closed.
			deadline := time.After(consts.ShutdownGracePeriod)
			for {
				select {
				case u := <-a.manager.Updates():
					if u.JobID == j.ID && u.Status.Finished() {
						return ctx.Err()
					}
				case <-deadline:
					return ctx.Err()
				}
			}
		case u := <-a.manager.Updates():
			a.board.Apply(u)
			printProgress(u)
			if u.JobID == j.ID && u.Status.Finished() {
				if u.Status == models.StatusFailed {
					if u.Err != nil {
						return u.Err
					}
					return errors.New(u.Message)
				}
				return nil
			}
		}
	}
}

// UploadAndWait queues a single upload and blocks until its terminal event.
func (a *App) UploadAndWait(ctx context.Context, path string) error {
	if err := a.manager.EnqueueUpload(path); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-a.manager.Updates():
			if u.Kind != models.KindUpload || u.Target != path || !u.Status.Finished() {
				continue
			}
			if u.Status == models.StatusFailed {
				if u.Err != nil {
					return u.Err
				}
				return errors.New(u.Message)
			}
			fmt.Println(u.Message)
			return nil
		}
	}
}

func printProgress(u models.StatusUpdate) {
	switch {
	case u.Status.Finished():
		fmt.Printf("\n%s: %s\n", u.Status, u.Message)
	case u.Percent > 0:
		fmt.Printf("\r%6.1f%%  %12s  ETA %s ", u.Percent, u.Speed, u.ETA)
	case u.Message != "":
		fmt.Printf("\n%s\n", u.Message)
	}
}

// Shutdown stops running jobs, drains the pool and removes the preview dir.
func (a *App) Shutdown() {
	a.manager.Shutdown()
	a.pool.Shutdown(consts.ShutdownGracePeriod)
	a.extractor.SetSource("", true) // clears the cache bookkeeping
	file.RemoveDir(a.previewDir)
}
