// Package validation verifies and normalizes user-supplied job parameters.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/regex"

	"golang.org/x/net/publicsuffix"
)

var (
	ErrEmptyURL    = errors.New("URL is empty")
	ErrNotVideoURL = errors.New("not a YouTube URL")
	ErrBadTime     = errors.New("invalid time format, expected HH:MM:SS")
	ErrBadRange    = errors.New("invalid time range")
)

// shell metacharacters and path elements stripped from custom filenames.
var dangerousStrings = []string{
	"/", "\\", "..", "\x00",
	"$", "`", "|", ";", "&", "<", ">", "(", ")",
	"{", "}", "[", "]", "!", "*", "?", "~", "^",
}

// SanitizeFilename strips path separators, parent references, shell
// metacharacters and control characters, trims leading/trailing dots and
// spaces, and caps the length. An all-dangerous input sanitizes to "".
func SanitizeFilename(name string) string {
	if name == "" {
		return ""
	}

	for _, s := range dangerousStrings {
		name = strings.ReplaceAll(name, s, "")
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	name = strings.Trim(b.String(), ". ")

	if len(name) > consts.MaxFilenameLength {
		// Cut on a rune boundary so a multi-byte character at the cap does
		// not leave invalid UTF-8.
		cut := consts.MaxFilenameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}

// ClampVolume clamps a volume multiplier into [MinVolume, MaxVolume].
func ClampVolume(v float64) float64 {
	return max(consts.MinVolume, min(consts.MaxVolume, v))
}

// ParseVolume parses and clamps a volume string. Non-numeric input defaults
// to 1.0 (100%).
func ParseVolume(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1.0
	}
	return ClampVolume(v)
}

// ParseClockTime parses "HH:MM:SS" into total seconds. Returns ErrBadTime on
// malformed input or durations over 24 hours.
func ParseClockTime(s string) (int, error) {
	m := regex.ClockTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, ErrBadTime
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if minutes >= 60 || seconds >= 60 {
		return 0, ErrBadTime
	}

	total := hours*3600 + minutes*60 + seconds
	if total > consts.MaxVideoDuration {
		return 0, ErrBadTime
	}
	return total, nil
}

// ValidateTimeRange checks that a trim window is logical and inside the
// source duration. A non-positive duration means the source length is
// unknown and only the window's own consistency is checked.
func ValidateTimeRange(start, end, duration int) error {
	if start < 0 || end < 0 {
		return fmt.Errorf("%w: negative boundary", ErrBadRange)
	}
	if start >= end {
		return fmt.Errorf("%w: start %d >= end %d", ErrBadRange, start, end)
	}
	if duration > 0 && end > duration {
		return fmt.Errorf("%w: end %d beyond duration %d", ErrBadRange, end, duration)
	}
	return nil
}

// ValidateVideoURL checks whether a URL points at a supported video site form
// (watch, shorts, embed, old-style /v/, playlist, or a youtu.be short link).
func ValidateVideoURL(raw string) error {
	if raw == "" {
		return ErrEmptyURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrNotVideoURL)
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNotVideoURL, host)
	}

	switch domain {
	case "youtu.be":
		if parsed.Path == "" || parsed.Path == "/" {
			return fmt.Errorf("%w: short link missing video ID", ErrNotVideoURL)
		}
		return nil
	case "youtube.com":
		switch {
		case strings.Contains(parsed.Path, "/watch"):
			if parsed.Query().Get("v") == "" {
				return fmt.Errorf("%w: missing video ID", ErrNotVideoURL)
			}
			return nil
		case strings.Contains(parsed.Path, "/shorts/"),
			strings.Contains(parsed.Path, "/embed/"),
			strings.Contains(parsed.Path, "/v/"),
			strings.Contains(parsed.Path, "/playlist"),
			parsed.Query().Get("list") != "":
			return nil
		}
		return fmt.Errorf("%w: unrecognized URL form", ErrNotVideoURL)
	}
	return ErrNotVideoURL
}

// IsPlaylistURL reports whether the URL refers to a playlist.
func IsPlaylistURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if strings.Contains(parsed.Path, "/playlist") {
		return true
	}
	return parsed.Query().Get("list") != ""
}

// IsLocalFile reports whether the target names an existing local file rather
// than a URL.
func IsLocalFile(target string) bool {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && !info.IsDir()
}

// IsMediaFile reports whether the path carries a known video or audio
// extension.
func IsMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range consts.AllVidExtensions {
		if ext == e {
			return true
		}
	}
	for _, e := range consts.AllAudioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
