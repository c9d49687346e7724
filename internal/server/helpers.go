package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"grabarr/internal/jobs"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
	"grabarr/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.E("Could not encode JSON response: %v", err)
	}
}

func decodeJobRequest(w http.ResponseWriter, r *http.Request) (jobRequest, bool) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return jobRequest{}, false
	}
	if req.Target == "" {
		http.Error(w, "target is required", http.StatusBadRequest)
		return jobRequest{}, false
	}
	return req, true
}

// buildJob converts a validated request into a Job, applying the same
// normalization the CLI applies: volume clamping, filename sanitization, and
// clock-time trim parsing.
func buildJob(req jobRequest, kind models.JobKind) (*models.Job, error) {
	j := &models.Job{
		ID:         uuid.NewString(),
		Kind:       kind,
		Target:     req.Target,
		Quality:    req.Quality,
		Volume:     validation.ClampVolume(req.Volume),
		SpeedLimit: req.SpeedLimit,
		OutputName: validation.SanitizeFilename(req.OutputName),
		OutputDir:  req.OutputDir,
		CreatedAt:  time.Now(),
	}
	if j.Volume == 0 {
		j.Volume = 1.0 // absent from the request, not muted
	}

	if req.TrimStart != "" || req.TrimEnd != "" {
		start, err := validation.ParseClockTime(req.TrimStart)
		if err != nil {
			return nil, err
		}
		end, err := validation.ParseClockTime(req.TrimEnd)
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateTimeRange(start, end, 0); err != nil {
			return nil, err
		}
		j.Trim = &models.TrimRange{Start: start, End: end}
	}

	return j, nil
}

func startJob(w http.ResponseWriter, r *http.Request, j *models.Job, start func(context.Context, *models.Job) error) {
	if err := start(context.WithoutCancel(r.Context()), j); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, jobs.ErrBusy) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": j.ID})
}
