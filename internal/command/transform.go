package command

import (
	"strconv"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/ffcmd"
	"grabarr/internal/models"
)

// TransformArgs builds the transcoder argument vector for a local-file
// transform (trim, scale, volume). Progress is emitted machine-readably on
// stdout via "-progress pipe:1".
func TransformArgs(j *models.Job, outputFile string) []string {
	args := make([]string, 0, 24)
	args = append(args, ffcmd.Input, j.Target)

	if j.TrimEnabled() {
		args = append(args,
			ffcmd.Seek, strconv.Itoa(j.Trim.Start),
			ffcmd.To, strconv.Itoa(j.Trim.End),
		)
	}

	if j.AudioOnly() {
		args = append(args,
			ffcmd.NoVideo,
			ffcmd.AudioCodec, consts.AudioCodec,
			ffcmd.AudioBitrate, consts.AudioBitrate,
		)
	} else {
		args = append(args,
			ffcmd.VideoFilter, "scale=-2:"+j.Quality,
			ffcmd.VideoCodec, consts.VideoCodec,
			ffcmd.CRF, strconv.Itoa(consts.VideoCRF),
			ffcmd.Preset, consts.EncodePreset,
			ffcmd.AudioCodec, consts.AudioCodec,
			ffcmd.AudioBitrate, consts.AudioBitrate,
		)
	}

	if j.Volume != 1.0 {
		args = append(args, ffcmd.AudioFilter, volumeFilter(j.Volume))
	}

	args = append(args, ffcmd.Progress, ffcmd.ProgressPipe, ffcmd.Overwrite, outputFile)
	return args
}

// FrameArgs builds the transcoder argument vector pulling exactly one frame
// at the given offset from a seekable source into outputFile.
func FrameArgs(source string, timestamp int, outputFile string) []string {
	return []string{
		ffcmd.Seek, strconv.Itoa(timestamp),
		ffcmd.Input, source,
		ffcmd.Frames, "1",
		ffcmd.FrameQuality, "2",
		ffcmd.Overwrite,
		outputFile,
	}
}

// ProbeDurationArgs builds the prober argument vector returning a local
// file's duration as a bare decimal on stdout.
func ProbeDurationArgs(path string) []string {
	return []string{
		ffcmd.LogLevel, ffcmd.LogLevelError,
		ffcmd.ShowEntries, ffcmd.FormatDuration,
		ffcmd.OutputFormat, ffcmd.PlainOneLineFmt,
		path,
	}
}
