package consts

// Encoding settings applied when a re-encode pass is required.
const (
	VideoCRF       = 23
	EncodePreset   = "faster"
	VideoCodec     = "libx264"
	AudioCodec     = "aac"
	AudioBitrate   = "128k"
	AudioQuality   = "128K"
	AudioContainer = "m4a"
	VideoContainer = "mp4"
)

// Download transfer tuning.
const (
	BufferSize          = "16K"
	ChunkSize           = "10M"
	ConcurrentFragments = "5"
)

// Validation limits.
const (
	MaxVolume         = 2.0
	MinVolume         = 0.0
	MaxVideoDuration  = 86400 // 24 hours
	MaxFilenameLength = 200
	BytesPerMB        = 1024 * 1024
	UploadMaxSizeMB   = 200
)

// Concurrency and caching.
const (
	MaxWorkerThreads = 3
	PreviewCacheSize = 20
	ProgressComplete = 100.0
)
