// Package fetch resolves media metadata (duration, title, size) through the
// external tools before a job is committed.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"grabarr/internal/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/proc"
	"grabarr/internal/retry"
)

// Metadata is the pre-flight information shown before a download starts.
type Metadata struct {
	Title    string
	Duration int   // seconds; 0 when the source did not report one
	Size     int64 // bytes; 0 when unknown
}

// Service runs metadata probes against the external tools. Probes are
// idempotent reads and retried on transient failure.
type Service struct {
	tools  models.ToolPaths
	policy retry.Policy
}

// NewService builds a Service over the resolved tool paths.
func NewService(tools models.ToolPaths) *Service {
	return &Service{tools: tools, policy: retry.Default}
}

// Duration fetches a remote video's length in seconds.
func (s *Service) Duration(ctx context.Context, url string) (int, error) {
	out, err := s.probe(ctx, consts.MetadataFetchTimeout, s.tools.Downloader, command.DurationArgs(url), "duration fetch")
	if err != nil {
		return 0, err
	}
	return ParseDuration(out)
}

// Title fetches a remote video's title.
func (s *Service) Title(ctx context.Context, url string) (string, error) {
	return s.probe(ctx, consts.MetadataFetchTimeout, s.tools.Downloader, command.TitleArgs(url), "title fetch")
}

// mediaInfo is the subset of the downloader's JSON dump we care about.
type mediaInfo struct {
	Title          string  `json:"title"`
	Duration       float64 `json:"duration"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
}

// Remote fetches title, duration and expected size for the job's quality in
// one downloader invocation.
func (s *Service) Remote(ctx context.Context, j *models.Job) (Metadata, error) {
	out, err := s.probe(ctx, consts.MetadataFetchTimeout, s.tools.Downloader, command.FileSizeArgs(j.Target, j.Quality), "metadata fetch")
	if err != nil {
		return Metadata{}, err
	}

	var info mediaInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return Metadata{}, fmt.Errorf("could not decode media info: %w", err)
	}

	md := Metadata{
		Title:    info.Title,
		Duration: int(info.Duration),
		Size:     info.Filesize,
	}
	if md.Size == 0 {
		md.Size = info.FilesizeApprox
	}
	return md, nil
}

// LocalDuration probes a local file's length in whole seconds.
func (s *Service) LocalDuration(ctx context.Context, path string) (int, error) {
	out, err := s.probe(ctx, consts.ProbeTimeout, s.tools.Prober, command.ProbeDurationArgs(path), "file probe")
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected probe output %q: %w", out, err)
	}
	return int(seconds), nil
}

func (s *Service) probe(ctx context.Context, timeout time.Duration, bin string, args []string, name string) (string, error) {
	var out string
	err := s.policy.Do(ctx, name, func() error {
		var opErr error
		out, opErr = proc.Output(ctx, timeout, bin, args)
		return opErr
	})
	return out, err
}

// ParseDuration converts the downloader's human duration ("SS", "MM:SS" or
// "HH:MM:SS") into seconds.
func ParseDuration(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("unexpected duration format %q", s)
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("unexpected duration format %q: %w", s, err)
		}
		total = total*60 + n
	}
	return total, nil
}

// EstimateTrimmedSize linearly scales a full-length size estimate down to the
// trim window. Zero inputs yield zero: no estimate beats a wrong one.
func EstimateTrimmedSize(fullSize int64, fullDuration, trimDuration int) int64 {
	if fullSize <= 0 || fullDuration <= 0 || trimDuration <= 0 {
		return 0
	}
	if trimDuration >= fullDuration {
		return fullSize
	}
	return int64(float64(fullSize) * float64(trimDuration) / float64(fullDuration))
}
