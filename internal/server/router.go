// Package server exposes Grabarr's HTTP control surface.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"grabarr/internal/jobs"
	"grabarr/internal/preview"
	"grabarr/internal/repo"
	"grabarr/internal/state"
)

// DefaultPort is the control API port when none is configured.
const DefaultPort = "8423"

var (
	mgr       *jobs.Manager
	board     *state.Board
	history   *repo.HistoryStore
	extractor *preview.Extractor
)

// NewRouter returns the control API handler.
func NewRouter(m *jobs.Manager, b *state.Board, hs *repo.HistoryStore, ex *preview.Extractor) http.Handler {
	// Inject subsystems
	mgr = m
	board = b
	history = hs
	extractor = ex

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handleStatus)

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/download", handleStartDownload)
			r.Post("/transform", handleStartTransform)
			r.Post("/stop", handleStopJob)
		})

		r.Route("/clipboard", func(r chi.Router) {
			r.Get("/", handleListClipboard)
			r.Post("/", handleAddClipboardURL)
			r.Delete("/", handleRemoveClipboardURL)
			r.Post("/download", handleDownloadClipboard)
			r.Post("/stop", handleStopClipboard)
		})

		r.Route("/preview", func(r chi.Router) {
			r.Post("/source", handleSetPreviewSource)
			r.Get("/frame", handleGetFrame)
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Post("/", handleEnqueueUpload)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/downloads", handleDownloadHistory)
			r.Get("/uploads", handleUploadHistory)
		})
	})

	return r
}
