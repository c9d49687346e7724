package consts

// Database table names.
const (
	DBDownloads = "downloads"
	DBUploads   = "uploads"
)

// Download table columns.
const (
	QDLID         = "id"
	QDLTarget     = "target"
	QDLOutputPath = "output_path"
	QDLKind       = "kind"
	QDLStatus     = "status"
	QDLCreatedAt  = "created_at"
)

// Upload table columns.
const (
	QULID        = "id"
	QULLocalPath = "local_path"
	QULRemoteURL = "remote_url"
	QULStatus    = "status"
	QULCreatedAt = "created_at"
)
