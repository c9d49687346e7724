// Package parsing extracts progress information from external tool output.
package parsing

import (
	"strconv"
	"strings"

	"grabarr/internal/domain/regex"
)

// Phase classifies a recognized marker in a downloader output line.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseStarting
	PhasePreparing
	PhaseExtractingAudio
	PhaseMerging
	PhaseTranscoding
	PhasePostProcessing
	PhaseAlreadyDownloaded
)

// Message returns the user-facing status message for a phase.
func (p Phase) Message() string {
	switch p {
	case PhaseStarting:
		return "Starting download..."
	case PhasePreparing:
		return "Preparing download..."
	case PhaseExtractingAudio:
		return "Extracting audio..."
	case PhaseMerging:
		return "Merging video and audio..."
	case PhaseTranscoding:
		return "Processing with ffmpeg..."
	case PhasePostProcessing:
		return "Post-processing..."
	case PhaseAlreadyDownloaded:
		return "File already exists, skipping..."
	}
	return ""
}

// Update holds whatever could be extracted from a single output line. Absent
// fields are zero-valued; HasPercent distinguishes 0% from no match.
type Update struct {
	Percent    float64
	HasPercent bool
	Size       string
	Speed      string
	ETA        string
	Phase      Phase
}

// Progress reports whether the line carried evidence of forward motion and
// should refresh the stall timestamp.
func (u Update) Progress() bool {
	return u.HasPercent || u.Phase != PhaseNone
}

// ParseLine extracts percentage, speed, ETA and phase from one output line.
// Unmatched input yields a zero Update; the parser never fails.
func ParseLine(line string) Update {
	var u Update

	if m := regex.Percent.FindStringSubmatch(line); m != nil {
		if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
			u.Percent = pct
			u.HasPercent = true
		}
	}
	if _, after, found := strings.Cut(line, " of "); found {
		if m := regex.Filesize.FindStringSubmatch(after); m != nil {
			u.Size = m[1]
		}
	}
	if m := regex.Speed.FindStringSubmatch(line); m != nil {
		u.Speed = m[1]
	}
	if m := regex.ETA.FindStringSubmatch(line); m != nil {
		u.ETA = m[1]
	}
	u.Phase = detectPhase(line)

	return u
}

func detectPhase(line string) Phase {
	switch {
	case strings.Contains(line, "has already been downloaded"):
		return PhaseAlreadyDownloaded
	case strings.Contains(line, "[ExtractAudio]"):
		return PhaseExtractingAudio
	case strings.Contains(line, "[Merger]") || strings.Contains(line, "Merging"):
		return PhaseMerging
	case strings.Contains(line, "[ffmpeg]"):
		return PhaseTranscoding
	case strings.Contains(line, "Post-processing") || strings.Contains(line, "Postprocessing"):
		return PhasePostProcessing
	case strings.Contains(line, "Destination"):
		return PhaseStarting
	case strings.Contains(line, "[info]") && strings.Contains(line, "Downloading"):
		return PhasePreparing
	}
	return PhaseNone
}

// ParseTranscodeProgress extracts the current output position in seconds from
// an ffmpeg "-progress pipe:1" line ("out_time_ms=<microseconds>").
func ParseTranscodeProgress(line string) (float64, bool) {
	if !strings.Contains(line, "out_time_ms=") {
		return 0, false
	}
	_, val, found := strings.Cut(line, "=")
	if !found {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(us) / 1e6, true
}
