// Package dlcmd holds command strings for the external downloader tool (yt-dlp).
package dlcmd

// Flags.
const (
	ConcurrentFragments  = "--concurrent-fragments"
	BufferSize           = "--buffer-size"
	HTTPChunkSize        = "--http-chunk-size"
	Newline              = "--newline"
	Progress             = "--progress"
	Format               = "-f"
	ExtractAudio         = "--extract-audio"
	AudioFormat          = "--audio-format"
	AudioQuality         = "--audio-quality"
	MergeOutputFormat    = "--merge-output-format"
	DownloadSections     = "--download-sections"
	ForceKeyframesAtCuts = "--force-keyframes-at-cuts"
	PostprocessorArgs    = "--postprocessor-args"
	LimitRate            = "--limit-rate"
	Output               = "-o"
	Cookies              = "--cookies"
	GetDuration          = "--get-duration"
	GetTitle             = "--get-title"
	DumpJSON             = "--dump-json"
	GetURL               = "-g"
	Version              = "--version"
)

// Output template tokens.
const (
	TitleToken         = "%(title)s"
	ExtToken           = "%(ext)s"
	PlaylistIndexToken = "%(playlist_index)s"
)

// Format selector fragments.
const (
	BestAudio        = "bestaudio"
	TranscoderPrefix = "ffmpeg:" // postprocessor-args route to the bundled ffmpeg
)
