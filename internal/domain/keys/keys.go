// Package keys holds the viper configuration key names.
package keys

// Terminal keys
const (
	DownloadDir    string = "download-dir"
	Quality        string = "quality"
	TrimStart      string = "trim-start"
	TrimEnd        string = "trim-end"
	Volume         string = "volume"
	SpeedLimit     string = "speed-limit"
	OutputName     string = "output-name"
	CookieFile     string = "cookie-file"
	AutoUpload     string = "auto-upload"
	AutoDownload   string = "auto-download"
	UploadHost     string = "upload-host"
	ServePort      string = "port"
	ConfigFile     string = "config-file"
	DownloaderPath string = "downloader-path"
	TranscoderPath string = "transcoder-path"
	ProberPath     string = "prober-path"
)

// Logging
const (
	DebugLevel string = "debug"
)
