package command

import (
	"grabarr/internal/domain/dlcmd"
)

// DurationArgs builds the downloader argument vector fetching a video's
// duration string.
func DurationArgs(url string) []string {
	return []string{dlcmd.GetDuration, url}
}

// TitleArgs builds the downloader argument vector fetching a video's title.
func TitleArgs(url string) []string {
	return []string{dlcmd.GetTitle, url}
}

// FileSizeArgs builds the downloader argument vector dumping the metadata
// JSON for the stream the given quality would select.
func FileSizeArgs(url, quality string) []string {
	return []string{dlcmd.DumpJSON, dlcmd.Format, formatSelector(quality), url}
}

// StreamURLArgs builds the downloader argument vector resolving a direct,
// seekable stream URL for frame extraction. A modest height cap keeps frame
// pulls cheap.
func StreamURLArgs(url string) []string {
	return []string{
		dlcmd.Format, "bestvideo[height<=480]/best[height<=480]",
		dlcmd.GetURL,
		url,
	}
}

// VersionArgs builds the probe used by the dependency check.
func VersionArgs() []string {
	return []string{dlcmd.Version}
}
