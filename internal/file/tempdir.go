package file

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// NewPreviewDir creates a uniquely named temp directory for preview frames.
func NewPreviewDir() (string, error) {
	return os.MkdirTemp("", consts.PreviewDirPrefix+"*")
}

// RemoveDir tears down a preview directory. Removal errors are logged and
// swallowed; a directory that is already gone is the desired end state.
func RemoveDir(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logging.D(1, "Preview dir cleanup for %q: %v", dir, err)
	}
}

// CleanupOrphanPreviewDirs removes preview directories left behind by
// crashed runs. Only directories with the preview prefix older than maxAge
// are touched.
func CleanupOrphanPreviewDirs(maxAge time.Duration) {
	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		logging.D(1, "Could not scan temp dir: %v", err)
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), consts.PreviewDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(os.TempDir(), entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logging.D(1, "Orphan preview dir %q: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logging.I("Removed %d orphaned preview directories", removed)
	}
}
