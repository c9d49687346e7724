package consts

import "time"

// Process and download timeouts.
const (
	ProcessTerminateTimeout = 3 * time.Second
	DownloadTimeout         = 3600 * time.Second // absolute ceiling for any download
	StallTimeout            = 600 * time.Second  // no progress for this long = stalled
	TimeoutCheckInterval    = 10 * time.Second
	MetadataFetchTimeout    = 30 * time.Second
	StreamFetchTimeout      = 15 * time.Second
	ProbeTimeout            = 10 * time.Second
	DependencyCheckTimeout  = 5 * time.Second
	ShutdownGracePeriod     = 5 * time.Second
	TempDirMaxAge           = time.Hour
)

// Clipboard polling.
const (
	ClipboardPollInterval = 500 * time.Millisecond
)

// Retry behaviour for idempotent fetch/extract operations.
const (
	MaxRetryAttempts = 3
	RetryDelay       = 2 * time.Second
)
