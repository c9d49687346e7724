package parsing_test

import (
	"testing"

	"grabarr/internal/parsing"
)

// TestParseLineProgress checks percentage, speed and ETA extraction from
// downloader progress lines.
func TestParseLineProgress(t *testing.T) {
	t.Parallel()

	u := parsing.ParseLine("[download]  45.2% of 100.00MiB at 1.23MiB/s ETA 00:45")
	if !u.HasPercent || u.Percent != 45.2 {
		t.Errorf("percent = %v (has=%v), want 45.2", u.Percent, u.HasPercent)
	}
	if u.Size != "100.00MiB" {
		t.Errorf("size = %q, want \"100.00MiB\"", u.Size)
	}
	if u.Speed != "1.23MiB/s" {
		t.Errorf("speed = %q, want \"1.23MiB/s\"", u.Speed)
	}
	if u.ETA != "00:45" {
		t.Errorf("eta = %q, want \"00:45\"", u.ETA)
	}
	if !u.Progress() {
		t.Error("line with percent must count as progress")
	}

	// Long-form ETA
	u = parsing.ParseLine("[download] 100.0% of 1.00GiB at 500.00 KiB/s ETA 01:23:45")
	if u.ETA != "01:23:45" {
		t.Errorf("long eta = %q, want \"01:23:45\"", u.ETA)
	}

	// Zero percent is still a match.
	u = parsing.ParseLine("[download]   0.0% of 10.00MiB at 2.00MiB/s ETA 00:05")
	if !u.HasPercent || u.Percent != 0 {
		t.Errorf("zero percent must set HasPercent, got %v/%v", u.Percent, u.HasPercent)
	}
}

// TestParseLinePhases checks phase marker detection and its messages.
func TestParseLinePhases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		phase   parsing.Phase
		message string
	}{
		{"[download] Destination: /tmp/video.mp4", parsing.PhaseStarting, "Starting download..."},
		{"[info] abc123: Downloading 1 format(s): 248+251", parsing.PhasePreparing, "Preparing download..."},
		{"[ExtractAudio] Destination: /tmp/audio.m4a", parsing.PhaseExtractingAudio, "Extracting audio..."},
		{"[Merger] Merging formats into \"/tmp/video.mp4\"", parsing.PhaseMerging, "Merging video and audio..."},
		{"[ffmpeg] Fixing MPEG-TS in MP4 container", parsing.PhaseTranscoding, "Processing with ffmpeg..."},
		{"Post-processing the file now", parsing.PhasePostProcessing, "Post-processing..."},
		{"[download] /tmp/video.mp4 has already been downloaded", parsing.PhaseAlreadyDownloaded, "File already exists, skipping..."},
	}

	for _, tc := range tests {
		u := parsing.ParseLine(tc.line)
		if u.Phase != tc.phase {
			t.Errorf("ParseLine(%q).Phase = %v, want %v", tc.line, u.Phase, tc.phase)
			continue
		}
		if got := u.Phase.Message(); got != tc.message {
			t.Errorf("phase message = %q, want %q", got, tc.message)
		}
		if !u.Progress() {
			t.Errorf("phase line %q must count as progress", tc.line)
		}
	}
}

// TestParseLineNoise checks that unrelated output yields a zero update and
// never an error.
func TestParseLineNoise(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"",
		"[youtube] abc123: Downloading webpage",
		"WARNING: unable to extract channel id",
		"random garbage \x00\xff",
	} {
		u := parsing.ParseLine(line)
		if u.HasPercent && line != "" {
			t.Errorf("ParseLine(%q) claimed a percent", line)
		}
		if line == "" && u.Progress() {
			t.Error("empty line must not count as progress")
		}
	}
}

// TestParseTranscodeProgress checks out_time_ms microsecond conversion.
func TestParseTranscodeProgress(t *testing.T) {
	t.Parallel()

	seconds, ok := parsing.ParseTranscodeProgress("out_time_ms=15500000")
	if !ok {
		t.Fatal("expected a match for out_time_ms line")
	}
	if seconds != 15.5 {
		t.Errorf("seconds = %v, want 15.5", seconds)
	}

	for _, line := range []string{
		"frame=390",
		"out_time=00:00:15.500000",
		"out_time_ms=not-a-number",
		"",
	} {
		if _, ok := parsing.ParseTranscodeProgress(line); ok {
			t.Errorf("ParseTranscodeProgress(%q) matched unexpectedly", line)
		}
	}
}
