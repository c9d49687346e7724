package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"grabarr/internal/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/proc"
	"grabarr/internal/retry"
	"grabarr/internal/utils/logging"

	"github.com/google/uuid"
)

// ErrNoFrame is the terminal failure surfaced to callers after all extraction
// attempts are exhausted; callers substitute an error placeholder.
var ErrNoFrame = errors.New("no frame available")

// Extractor resolves a seekable media source and pulls single frames from it
// into the cache. It is the cache's only producer.
type Extractor struct {
	cache   *Cache
	tempDir string
	tools   models.ToolPaths
	policy  retry.Policy

	mu     sync.Mutex
	source string
	local  bool
	// resolved direct stream URL for remote sources, cached per source
	streamURL string
}

// NewExtractor returns an extractor writing frames under tempDir.
func NewExtractor(cache *Cache, tempDir string, tools models.ToolPaths) *Extractor {
	return &Extractor{
		cache:   cache,
		tempDir: tempDir,
		tools:   tools,
		policy:  retry.Default,
	}
}

// SetSource switches the media source (local path or remote URL) and clears
// stale cache bookkeeping.
func (e *Extractor) SetSource(source string, local bool) {
	e.mu.Lock()
	changed := e.source != source
	e.source = source
	e.local = local
	e.streamURL = ""
	e.mu.Unlock()

	if changed {
		logging.D(1, "Preview source changed, clearing cache")
		e.cache.Clear()
	}
}

// Frame returns the path of a frame extracted at the given offset, serving
// from cache when possible. Network and tool failures are retried with
// backoff before surfacing as ErrNoFrame.
func (e *Extractor) Frame(ctx context.Context, timestamp int) (string, error) {
	e.mu.Lock()
	source, local := e.source, e.local
	e.mu.Unlock()

	if source == "" {
		return "", ErrNoFrame
	}

	if path, ok := e.cache.Get(timestamp); ok {
		if _, err := os.Stat(path); err == nil {
			logging.D(2, "Using cached frame for timestamp %ds", timestamp)
			return path, nil
		}
		// Invalidated externally by cleanup; fall through to re-extract.
	}

	input := source
	if !local {
		streamURL, err := e.resolveStreamURL(ctx, source)
		if err != nil {
			logging.E("Could not resolve stream URL for frame at %ds: %v", timestamp, err)
			return "", ErrNoFrame
		}
		input = streamURL
	}

	outFile := filepath.Join(e.tempDir,
		fmt.Sprintf("%s%d_%s.jpg", consts.FramePrefix, timestamp, uuid.NewString()))

	err := e.policy.Do(ctx, fmt.Sprintf("extract frame at %ds", timestamp), func() error {
		_, err := runTool(ctx, e.tools.Transcoder, command.FrameArgs(input, timestamp, outFile))
		return err
	})
	if err != nil {
		logging.E("Frame extraction failed at %ds: %v", timestamp, err)
		return "", ErrNoFrame
	}

	if _, err := os.Stat(outFile); err != nil {
		return "", ErrNoFrame
	}

	e.cache.Put(timestamp, outFile)
	return outFile, nil
}

// resolveStreamURL asks the downloader for a direct stream URL, memoizing the
// answer for the current source.
func (e *Extractor) resolveStreamURL(ctx context.Context, source string) (string, error) {
	e.mu.Lock()
	if e.streamURL != "" && e.source == source {
		cached := e.streamURL
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	var streamURL string
	err := e.policy.Do(ctx, "resolve stream URL", func() error {
		out, err := runTool(ctx, e.tools.Downloader, command.StreamURLArgs(source))
		if err != nil {
			return err
		}
		line, _, _ := strings.Cut(out, "\n")
		if line == "" {
			return errors.New("empty stream URL")
		}
		streamURL = strings.TrimSpace(line)
		return nil
	})
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	if e.source == source {
		e.streamURL = streamURL
	}
	e.mu.Unlock()
	return streamURL, nil
}

func runTool(ctx context.Context, bin string, args []string) (string, error) {
	return proc.Output(ctx, consts.StreamFetchTimeout, bin, args)
}
