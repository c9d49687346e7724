package command_test

import (
	"reflect"
	"strings"
	"testing"

	"grabarr/internal/command"
	"grabarr/internal/models"
)

func videoJob() *models.Job {
	return &models.Job{
		ID:        "j1",
		Kind:      models.KindSingleDownload,
		Target:    "https://www.youtube.com/watch?v=abc",
		Quality:   "720",
		Volume:    1.0,
		OutputDir: "/tmp/out",
	}
}

func argsContain(args []string, sub ...string) bool {
	for i := 0; i+len(sub) <= len(args); i++ {
		match := true
		for k, s := range sub {
			if args[i+k] != s {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// TestDownloadArgsDeterministic checks that identical inputs yield identical
// argument vectors, order included.
func TestDownloadArgsDeterministic(t *testing.T) {
	t.Parallel()

	j := videoJob()
	j.Trim = &models.TrimRange{Start: 10, End: 40}
	j.Volume = 1.5
	j.SpeedLimit = 2.5

	first := command.DownloadArgs(j)
	second := command.DownloadArgs(j)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("builder is not deterministic:\n%v\n%v", first, second)
	}
}

// TestVideoDownloadFastPath checks that a plain download at default volume
// carries no re-encode block and no section directives.
func TestVideoDownloadFastPath(t *testing.T) {
	t.Parallel()

	args := command.DownloadArgs(videoJob())
	joined := strings.Join(args, " ")

	if strings.Contains(joined, "--postprocessor-args") {
		t.Errorf("fast path must not re-encode, got: %s", joined)
	}
	if strings.Contains(joined, "--download-sections") {
		t.Errorf("fast path must not cut sections, got: %s", joined)
	}
	if !argsContain(args, "-f", "bestvideo[height<=720]+bestaudio/best[height<=720]") {
		t.Errorf("missing format selector in: %s", joined)
	}
	if !argsContain(args, "--merge-output-format", "mp4") {
		t.Errorf("missing merge container in: %s", joined)
	}
}

// TestVideoDownloadTrimmed covers the 720p trim(10s,40s) volume-1.0 scenario:
// section cutting with forced keyframes and a re-encode block, but no volume
// filter.
func TestVideoDownloadTrimmed(t *testing.T) {
	t.Parallel()

	j := videoJob()
	j.Trim = &models.TrimRange{Start: 10, End: 40}

	args := command.DownloadArgs(j)
	joined := strings.Join(args, " ")

	if !argsContain(args, "--download-sections", "*00:00:10-00:00:40") {
		t.Errorf("missing section directive in: %s", joined)
	}
	if !argsContain(args, "--force-keyframes-at-cuts") {
		t.Errorf("missing keyframe forcing in: %s", joined)
	}

	wantPP := "ffmpeg:-c:v libx264 -crf 23 -preset faster -c:a aac -b:a 128k"
	if !argsContain(args, "--postprocessor-args", wantPP) {
		t.Errorf("trim must force the re-encode block, got: %s", joined)
	}
	if strings.Contains(joined, "volume=") {
		t.Errorf("default volume must not add a filter, got: %s", joined)
	}
}

// TestVideoDownloadVolumeOnly checks that a non-default volume alone forces
// the re-encode block with the volume filter appended.
func TestVideoDownloadVolumeOnly(t *testing.T) {
	t.Parallel()

	j := videoJob()
	j.Volume = 0.5

	args := command.DownloadArgs(j)
	wantPP := "ffmpeg:-c:v libx264 -crf 23 -preset faster -c:a aac -b:a 128k -af volume=0.5"
	if !argsContain(args, "--postprocessor-args", wantPP) {
		t.Fatalf("expected volume re-encode block, got: %v", args)
	}
}

// TestAudioDownload covers the quality-"none" volume-1.5 scenario: best audio
// extraction with a volume postprocessor filter.
func TestAudioDownload(t *testing.T) {
	t.Parallel()

	j := videoJob()
	j.Quality = "none"
	j.Volume = 1.5

	args := command.DownloadArgs(j)
	joined := strings.Join(args, " ")

	if !argsContain(args, "-f", "bestaudio") {
		t.Errorf("missing bestaudio selector in: %s", joined)
	}
	if !argsContain(args, "--extract-audio") {
		t.Errorf("missing audio extraction in: %s", joined)
	}
	if !argsContain(args, "--audio-format", "m4a") {
		t.Errorf("missing audio container in: %s", joined)
	}
	if !argsContain(args, "--postprocessor-args", "ffmpeg:-af volume=1.5") {
		t.Errorf("missing volume filter in: %s", joined)
	}
	if strings.Contains(joined, "libx264") {
		t.Errorf("audio path must not carry video codec args, got: %s", joined)
	}
}

// TestSpeedLimit checks MB/s-to-bytes conversion and the unlimited case.
func TestSpeedLimit(t *testing.T) {
	t.Parallel()

	j := videoJob()
	j.SpeedLimit = 2.5
	if !argsContain(command.DownloadArgs(j), "--limit-rate", "2621440") {
		t.Error("2.5 MB/s should convert to 2621440 bytes/s")
	}

	j.SpeedLimit = 0
	if strings.Contains(strings.Join(command.DownloadArgs(j), " "), "--limit-rate") {
		t.Error("zero speed limit must not emit a rate flag")
	}
}

// TestOutputTemplate checks the downloader output path template forms.
func TestOutputTemplate(t *testing.T) {
	t.Parallel()

	j := videoJob()
	if got, want := command.OutputTemplate(j), "/tmp/out/%(title)s.%(ext)s"; got != want {
		t.Errorf("default template = %q, want %q", got, want)
	}

	j.OutputName = "myclip"
	if got, want := command.OutputTemplate(j), "/tmp/out/myclip.%(ext)s"; got != want {
		t.Errorf("custom template = %q, want %q", got, want)
	}

	j.Trim = &models.TrimRange{Start: 10, End: 40}
	if got, want := command.OutputTemplate(j), "/tmp/out/myclip_[00-00-10_to_00-00-40].%(ext)s"; got != want {
		t.Errorf("trimmed template = %q, want %q", got, want)
	}

	// Playlist forms weave in the index so files cannot collide.
	j = videoJob()
	j.Kind = models.KindPlaylistDownload
	if got, want := command.OutputTemplate(j), "/tmp/out/%(playlist_index)s-%(title)s.%(ext)s"; got != want {
		t.Errorf("playlist template = %q, want %q", got, want)
	}
	j.OutputName = "series"
	if got, want := command.OutputTemplate(j), "/tmp/out/series-%(playlist_index)s.%(ext)s"; got != want {
		t.Errorf("named playlist template = %q, want %q", got, want)
	}
}

// TestTransformOutputPath checks stem reuse and the processed suffix.
func TestTransformOutputPath(t *testing.T) {
	t.Parallel()

	j := &models.Job{
		Kind:      models.KindLocalTransform,
		Target:    "/videos/input.mkv",
		Quality:   "480",
		Volume:    1.0,
		OutputDir: "/tmp/out",
	}

	if got, want := command.TransformOutputPath(j), "/tmp/out/input_processed.mp4"; got != want {
		t.Errorf("default output = %q, want %q", got, want)
	}

	j.Trim = &models.TrimRange{Start: 0, End: 90}
	if got, want := command.TransformOutputPath(j), "/tmp/out/input_[00-00-00_to_00-01-30].mp4"; got != want {
		t.Errorf("trimmed output = %q, want %q", got, want)
	}

	j.Trim = nil
	j.OutputName = "final"
	if got, want := command.TransformOutputPath(j), "/tmp/out/final.mp4"; got != want {
		t.Errorf("named output = %q, want %q", got, want)
	}

	j.Quality = "none"
	if got, want := command.TransformOutputPath(j), "/tmp/out/final.m4a"; got != want {
		t.Errorf("audio output = %q, want %q", got, want)
	}
}

// TestTransformArgs checks the transcoder vector for scale and trim.
func TestTransformArgs(t *testing.T) {
	t.Parallel()

	j := &models.Job{
		Kind:    models.KindLocalTransform,
		Target:  "/videos/input.mp4",
		Quality: "480",
		Volume:  1.0,
		Trim:    &models.TrimRange{Start: 5, End: 25},
	}

	args := command.TransformArgs(j, "/tmp/out/result.mp4")
	joined := strings.Join(args, " ")

	wants := [][]string{
		{"-i", "/videos/input.mp4"},
		{"-ss", "5"},
		{"-to", "25"},
		{"-vf", "scale=-2:480"},
		{"-c:v", "libx264"},
		{"-crf", "23"},
		{"-preset", "faster"},
		{"-c:a", "aac"},
		{"-b:a", "128k"},
		{"-progress", "pipe:1"},
	}
	for _, want := range wants {
		if !argsContain(args, want...) {
			t.Errorf("missing %v in: %s", want, joined)
		}
	}

	if args[len(args)-1] != "/tmp/out/result.mp4" {
		t.Errorf("output file must be last, got: %s", joined)
	}

	// Audio-only drops the video chain entirely.
	j.Quality = "none"
	audioArgs := command.TransformArgs(j, "/tmp/out/result.m4a")
	audioJoined := strings.Join(audioArgs, " ")
	if !argsContain(audioArgs, "-vn") {
		t.Errorf("audio transform missing -vn: %s", audioJoined)
	}
	if strings.Contains(audioJoined, "libx264") || strings.Contains(audioJoined, "scale=") {
		t.Errorf("audio transform must not scale or encode video: %s", audioJoined)
	}
}

// TestFrameArgs checks the single-frame extraction vector.
func TestFrameArgs(t *testing.T) {
	t.Parallel()

	args := command.FrameArgs("/videos/src.mp4", 42, "/tmp/frame.jpg")
	want := []string{"-ss", "42", "-i", "/videos/src.mp4", "-vframes", "1", "-q:v", "2", "-y", "/tmp/frame.jpg"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("FrameArgs = %v, want %v", args, want)
	}
}

// TestSecondsToHMS checks zero-padded clock formatting.
func TestSecondsToHMS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00:00"}, {10, "00:00:10"}, {90, "00:01:30"}, {3723, "01:02:03"},
	}
	for _, tc := range tests {
		if got := command.SecondsToHMS(tc.in); got != tc.want {
			t.Errorf("SecondsToHMS(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
