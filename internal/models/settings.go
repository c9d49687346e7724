package models

// ToolPaths holds the resolved locations of the external tools.
type ToolPaths struct {
	Downloader string
	Transcoder string
	Prober     string
}

// Settings holds the per-run application settings resolved from flags/config.
type Settings struct {
	DownloadDir  string
	Quality      string
	Volume       float64
	SpeedLimit   float64
	OutputName   string
	CookieFile   string
	AutoUpload   bool
	AutoDownload bool
	UploadHost   string
	Tools        ToolPaths
}
