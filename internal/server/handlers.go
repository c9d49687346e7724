package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"grabarr/internal/jobs"
	"grabarr/internal/models"
	"grabarr/internal/validation"
)

// jobRequest is the JSON body accepted by the job-start endpoints.
type jobRequest struct {
	Target     string  `json:"target"`
	Quality    string  `json:"quality"`
	TrimStart  string  `json:"trim_start"`
	TrimEnd    string  `json:"trim_end"`
	Volume     float64 `json:"volume"`
	SpeedLimit float64 `json:"speed_limit"`
	OutputName string  `json:"output_name"`
	OutputDir  string  `json:"output_dir"`
}

// handleStatus reports the latest event per job kind plus subsystem flags.
func handleStatus(w http.ResponseWriter, r *http.Request) {
	completed, failed := 0, 0
	for _, e := range mgr.ClipboardEntries() {
		switch e.Status {
		case models.ClipCompleted:
			completed++
		case models.ClipFailed:
			failed++
		}
	}

	resp := map[string]any{
		"jobs":                board.Snapshot(),
		"download_active":     mgr.DownloadActive(),
		"upload_active":       mgr.UploadActive(),
		"fetch_active":        mgr.FetchActive(),
		"uploads_pending":     mgr.UploadPending(),
		"clipboard_completed": completed,
		"clipboard_failed":    failed,
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStartDownload begins a single or playlist download.
func handleStartDownload(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJobRequest(w, r)
	if !ok {
		return
	}
	if err := validation.ValidateVideoURL(req.Target); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	kind := models.KindSingleDownload
	if validation.IsPlaylistURL(req.Target) {
		kind = models.KindPlaylistDownload
	}

	j, err := buildJob(req, kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startJob(w, r, j, mgr.StartDownload)
}

// handleStartTransform begins a local file transform.
func handleStartTransform(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJobRequest(w, r)
	if !ok {
		return
	}
	if !validation.IsLocalFile(req.Target) {
		http.Error(w, fmt.Sprintf("no such file: %q", req.Target), http.StatusBadRequest)
		return
	}
	if !validation.IsMediaFile(req.Target) {
		http.Error(w, fmt.Sprintf("not a media file: %q", req.Target), http.StatusBadRequest)
		return
	}

	j, err := buildJob(req, models.KindLocalTransform)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startJob(w, r, j, mgr.StartTransform)
}

// handleStopJob terminates the running download or transform.
func handleStopJob(w http.ResponseWriter, r *http.Request) {
	if !mgr.StopActive("stopped by user") {
		http.Error(w, "no job is running", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func handleListClipboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mgr.ClipboardEntries())
}

func handleAddClipboardURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := mgr.AddClipboardURL(body.URL); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, jobs.ErrDuplicateURL) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func handleRemoveClipboardURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if !mgr.RemoveClipboardURL(url) {
		http.Error(w, "URL not in list", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadClipboard starts the sequential batch over pending URLs.
func handleDownloadClipboard(w http.ResponseWriter, r *http.Request) {
	if err := mgr.DownloadPendingClipboard(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func handleStopClipboard(w http.ResponseWriter, r *http.Request) {
	if !mgr.StopClipboard() {
		http.Error(w, "clipboard processing is not running", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func handleEnqueueUpload(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := mgr.EnqueueUpload(body.Path); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func handleDownloadHistory(w http.ResponseWriter, r *http.Request) {
	if history == nil {
		http.Error(w, "history store unavailable", http.StatusServiceUnavailable)
		return
	}
	records, err := history.RecentDownloads(50)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func handleUploadHistory(w http.ResponseWriter, r *http.Request) {
	if history == nil {
		http.Error(w, "history store unavailable", http.StatusServiceUnavailable)
		return
	}
	records, err := history.RecentUploads(50)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
