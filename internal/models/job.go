// Package models holds the data models shared between Grabarr's subsystems.
package models

import (
	"time"

	"grabarr/internal/domain/consts"
)

// JobKind represents the type of job operation.
type JobKind string

const (
	KindSingleDownload   JobKind = "single-download"
	KindPlaylistDownload JobKind = "playlist-download"
	KindLocalTransform   JobKind = "local-transform"
	KindClipboardItem    JobKind = "clipboard-item"
	KindUpload           JobKind = "upload"
)

// TrimRange is an inclusive cut window in whole seconds.
type TrimRange struct {
	Start int
	End   int
}

// Duration returns the trimmed length in seconds.
func (t TrimRange) Duration() int { return t.End - t.Start }

// Job is one requested unit of fetch/transform/upload work. Parameters arrive
// already validated from the CLI/HTTP surface.
type Job struct {
	ID         string
	Kind       JobKind
	Target     string // URL or local file path
	Quality    string // numeric height, or consts.QualityAudioOnly
	Trim       *TrimRange
	Volume     float64 // clamped to [0.0, 2.0]
	SpeedLimit float64 // MB/s; <= 0 means no limit
	OutputName string  // sanitized custom base name, empty for tool default
	OutputDir  string
	Duration   int // known source duration in seconds, 0 when unknown

	CreatedAt time.Time
}

// AudioOnly reports whether the job requests audio extraction instead of video.
func (j *Job) AudioOnly() bool { return j.Quality == consts.QualityAudioOnly }

// TrimEnabled reports whether a cut window is set.
func (j *Job) TrimEnabled() bool { return j.Trim != nil }

// NeedsReencode reports whether direct stream copy is impossible for this job.
// Trimming and volume filtering both force a transcoding pass.
func (j *Job) NeedsReencode() bool { return j.TrimEnabled() || j.Volume != 1.0 }
