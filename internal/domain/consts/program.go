// Package consts holds various global, unchanging values.
package consts

// External tool binary names (overridable via config).
const (
	DownloaderName = "yt-dlp"
	TranscoderName = "ffmpeg"
	ProberName     = "ffprobe"
)

// Quality selectors.
const (
	QualityAudioOnly = "none"
	DefaultQuality   = "480"
)

// Temp file naming.
const (
	PreviewDirPrefix = "grabarr_preview_"
	FramePrefix      = "frame_"
)

// AllVidExtensions is a list of video file extensions.
var AllVidExtensions = [...]string{".3gp", ".avi", ".f4v", ".flv", ".m4v", ".mkv",
	".mov", ".mp4", ".mpeg", ".mpg", ".ogm", ".ogv",
	".ts", ".vob", ".webm", ".wmv"}

// AllAudioExtensions is a list of audio file extensions.
var AllAudioExtensions = [...]string{".aac", ".flac", ".m4a", ".mp3", ".ogg", ".opus", ".wav"}
