// Package file owns Grabarr's on-disk bookkeeping: the persisted clipboard
// list and the preview temp directories.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"grabarr/internal/models"
)

// ClipboardList persists the clipboard URL list as JSON at a fixed path.
type ClipboardList struct {
	path string
}

// NewClipboardList builds persistence rooted at path.
func NewClipboardList(path string) *ClipboardList {
	return &ClipboardList{path: path}
}

type clipboardListFile struct {
	URLs []models.ClipboardEntry `json:"urls"`
}

// Save writes the list to disk. Completed entries are dropped and in-flight
// entries demoted to pending, so a restart resumes cleanly: only work still
// owed (pending, failed) survives.
func (c *ClipboardList) Save(entries []models.ClipboardEntry) error {
	out := clipboardListFile{URLs: make([]models.ClipboardEntry, 0, len(entries))}
	for _, e := range entries {
		switch e.Status {
		case models.ClipCompleted:
			continue
		case models.ClipDownloading:
			e.Status = models.ClipPending
		}
		out.URLs = append(out.URLs, e)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode clipboard list: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write clipboard list: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("could not replace clipboard list: %w", err)
	}
	return nil
}

// Load reads the persisted list. A missing file is an empty list, not an
// error.
func (c *ClipboardList) Load() ([]models.ClipboardEntry, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read clipboard list: %w", err)
	}

	var in clipboardListFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("could not decode clipboard list %q: %w", filepath.Base(c.path), err)
	}
	return in.URLs, nil
}
