package command

import (
	"strconv"
	"strings"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/dlcmd"
	"grabarr/internal/models"
)

// BaseArgs returns the common downloader flags shared by every download:
// parallel fragments, buffering, chunked transfer, and line-oriented progress.
func BaseArgs() []string {
	return []string{
		dlcmd.ConcurrentFragments, consts.ConcurrentFragments,
		dlcmd.BufferSize, consts.BufferSize,
		dlcmd.HTTPChunkSize, consts.ChunkSize,
		dlcmd.Newline,
		dlcmd.Progress,
	}
}

// DownloadArgs builds the full downloader argument vector for a download job,
// routing between the audio and video paths.
func DownloadArgs(j *models.Job) []string {
	if j.AudioOnly() {
		return audioDownloadArgs(j)
	}
	return videoDownloadArgs(j)
}

// audioDownloadArgs selects the best audio stream and extracts it to a fixed
// container. Trim boundaries and volume are applied through the transcoder
// postprocessor since stream copy cannot express either.
func audioDownloadArgs(j *models.Job) []string {
	args := make([]string, 0, 32)
	args = append(args, BaseArgs()...)
	args = append(args,
		dlcmd.Format, dlcmd.BestAudio,
		dlcmd.ExtractAudio,
		dlcmd.AudioFormat, consts.AudioContainer,
		dlcmd.AudioQuality, consts.AudioQuality,
	)

	var ppArgs []string
	if j.TrimEnabled() {
		ppArgs = append(ppArgs, "-ss", strconv.Itoa(j.Trim.Start), "-to", strconv.Itoa(j.Trim.End))
	}
	if j.Volume != 1.0 {
		ppArgs = append(ppArgs, "-af", volumeFilter(j.Volume))
	}
	if len(ppArgs) > 0 {
		args = append(args, dlcmd.PostprocessorArgs, dlcmd.TranscoderPrefix+strings.Join(ppArgs, " "))
	}

	args = append(args, speedLimitArgs(j.SpeedLimit)...)
	args = append(args, dlcmd.Output, OutputTemplate(j), j.Target)
	return args
}

// videoDownloadArgs selects best video at or under the requested height plus
// best audio, with a combined-stream fallback, merged into a fixed container.
// A trim window adds a download-sections directive with keyframe alignment
// forced at the cut boundaries. Trim or volume force a full re-encode block;
// otherwise the stream is left untouched for a fast remux.
func videoDownloadArgs(j *models.Job) []string {
	args := make([]string, 0, 32)
	args = append(args, BaseArgs()...)
	args = append(args,
		dlcmd.Format, formatSelector(j.Quality),
		dlcmd.MergeOutputFormat, consts.VideoContainer,
	)

	if j.TrimEnabled() {
		section := "*" + SecondsToHMS(j.Trim.Start) + "-" + SecondsToHMS(j.Trim.End)
		args = append(args,
			dlcmd.DownloadSections, section,
			dlcmd.ForceKeyframesAtCuts,
		)
	}

	if j.NeedsReencode() {
		ppArgs := []string{
			"-c:v", consts.VideoCodec, "-crf", strconv.Itoa(consts.VideoCRF),
			"-preset", consts.EncodePreset, "-c:a", consts.AudioCodec, "-b:a", consts.AudioBitrate,
		}
		if j.Volume != 1.0 {
			ppArgs = append(ppArgs, "-af", volumeFilter(j.Volume))
		}
		args = append(args, dlcmd.PostprocessorArgs, dlcmd.TranscoderPrefix+strings.Join(ppArgs, " "))
	}

	args = append(args, speedLimitArgs(j.SpeedLimit)...)
	args = append(args, dlcmd.Output, OutputTemplate(j), j.Target)
	return args
}

// formatSelector renders the quality selector for a numeric height.
func formatSelector(quality string) string {
	if quality == consts.QualityAudioOnly {
		return dlcmd.BestAudio
	}
	return "bestvideo[height<=" + quality + "]+bestaudio/best[height<=" + quality + "]"
}

// speedLimitArgs converts a MB/s rate into the downloader's bytes/sec rate
// limit flag. Non-positive rates mean "no limit" and yield nothing.
func speedLimitArgs(mbps float64) []string {
	if mbps <= 0 {
		return nil
	}
	rate := int64(mbps * consts.BytesPerMB)
	return []string{dlcmd.LimitRate, strconv.FormatInt(rate, 10)}
}

func volumeFilter(v float64) string {
	return "volume=" + strconv.FormatFloat(v, 'g', -1, 64)
}
