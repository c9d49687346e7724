package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"grabarr/internal/preview"
	"grabarr/internal/validation"
)

// handleSetPreviewSource points the frame extractor at a new video. Changing
// the source clears the preview cache.
func handleSetPreviewSource(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	local := validation.IsLocalFile(body.Target)
	if !local {
		if err := validation.ValidateVideoURL(body.Target); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	extractor.SetSource(body.Target, local)

	// Display info for the seek UI. Zero duration means the probe failed and
	// the client should not bound the seek range.
	title, duration := mgr.SourceInfo(r.Context(), body.Target)
	writeJSON(w, http.StatusOK, map[string]any{
		"title":    title,
		"duration": duration,
	})
}

// handleGetFrame serves the preview frame at ?ts=<seconds> as a JPEG.
func handleGetFrame(w http.ResponseWriter, r *http.Request) {
	ts, err := strconv.Atoi(r.URL.Query().Get("ts"))
	if err != nil || ts < 0 {
		http.Error(w, "ts must be a non-negative integer", http.StatusBadRequest)
		return
	}

	path, err := extractor.Frame(r.Context(), ts)
	if err != nil {
		if errors.Is(err, preview.ErrNoFrame) {
			http.Error(w, "no frame available", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, path)
}
