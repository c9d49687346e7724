// Package ffcmd holds command strings for the external transcoder tool (ffmpeg/ffprobe).
package ffcmd

const (
	Input        = "-i"
	Seek         = "-ss"
	To           = "-to"
	NoVideo      = "-vn"
	VideoCodec   = "-c:v"
	AudioCodec   = "-c:a"
	CRF          = "-crf"
	Preset       = "-preset"
	AudioBitrate = "-b:a"
	AudioFilter  = "-af"
	VideoFilter  = "-vf"
	Frames       = "-vframes"
	FrameQuality = "-q:v"
	Progress     = "-progress"
	ProgressPipe = "pipe:1"
	Overwrite    = "-y"
	Version      = "-version"
)

// ffprobe flags for duration lookup.
const (
	LogLevel        = "-v"
	LogLevelError   = "error"
	ShowEntries     = "-show_entries"
	FormatDuration  = "format=duration"
	OutputFormat    = "-of"
	PlainOneLineFmt = "default=noprint_wrappers=1:nokey=1"
)
