// Package command builds argument vectors for the external downloader and
// transcoder tools. All builders are pure: identical inputs yield identical
// argument vectors, order included.
package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/dlcmd"
	"grabarr/internal/models"
)

// SecondsToHMS formats whole seconds as zero-padded "HH:MM:SS".
func SecondsToHMS(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// trimTag renders the filesystem-safe bracketed trim segment appended to
// output names, e.g. "_[00-00-10_to_00-00-40]".
func trimTag(t *models.TrimRange) string {
	start := strings.ReplaceAll(SecondsToHMS(t.Start), ":", "-")
	end := strings.ReplaceAll(SecondsToHMS(t.End), ":", "-")
	return "_[" + start + "_to_" + end + "]"
}

// OutputTemplate computes the downloader output path template for a job. The
// custom name is assumed already sanitized; without one the tool's native
// title token is used. Playlist jobs weave in the playlist index so files do
// not collide.
func OutputTemplate(j *models.Job) string {
	base := j.OutputName
	if j.Kind == models.KindPlaylistDownload {
		if base != "" {
			base += "-" + dlcmd.PlaylistIndexToken
		} else {
			base = dlcmd.PlaylistIndexToken + "-" + dlcmd.TitleToken
		}
	} else if base == "" {
		base = dlcmd.TitleToken
	}

	if j.TrimEnabled() {
		base += trimTag(j.Trim)
	}

	return filepath.Join(j.OutputDir, base+"."+dlcmd.ExtToken)
}

// TransformOutputPath computes the transcoder output file for a local
// transform job. Without a custom name the input file's stem is reused, with
// a "_processed" suffix when no trim tag already distinguishes it.
func TransformOutputPath(j *models.Job) string {
	base := j.OutputName
	custom := base != ""
	if !custom {
		in := filepath.Base(j.Target)
		base = strings.TrimSuffix(in, filepath.Ext(in))
	}

	switch {
	case j.TrimEnabled():
		base += trimTag(j.Trim)
	case !custom:
		base += "_processed"
	}

	ext := consts.VideoContainer
	if j.AudioOnly() {
		ext = consts.AudioContainer
	}
	return filepath.Join(j.OutputDir, base+"."+ext)
}
