package models

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusStopped   JobStatus = "stopped"
)

// Finished reports whether the status is terminal.
func (s JobStatus) Finished() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// StatusUpdate is one progress/state event emitted by a running job.
type StatusUpdate struct {
	JobID   string
	Kind    JobKind
	Target  string
	Status  JobStatus
	Percent float64
	Size    string
	Speed   string
	ETA     string
	Message string
	Err     error
}

// ClipboardStatus is the state of one detected clipboard URL.
type ClipboardStatus string

const (
	ClipPending     ClipboardStatus = "pending"
	ClipDownloading ClipboardStatus = "downloading"
	ClipCompleted   ClipboardStatus = "completed"
	ClipFailed      ClipboardStatus = "failed"
)

// ClipboardEntry is one URL detected in the clipboard, unique by URL.
type ClipboardEntry struct {
	URL    string          `json:"url"`
	Status ClipboardStatus `json:"status"`
}
