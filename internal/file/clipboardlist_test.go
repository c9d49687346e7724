package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"grabarr/internal/file"
	"grabarr/internal/models"
)

// TestClipboardListRoundTrip checks that only owed work survives a save/load
// cycle: completed entries dropped, in-flight entries demoted to pending.
func TestClipboardListRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clipboard_urls.json")
	list := file.NewClipboardList(path)

	entries := []models.ClipboardEntry{
		{URL: "https://youtu.be/a", Status: models.ClipPending},
		{URL: "https://youtu.be/b", Status: models.ClipDownloading},
		{URL: "https://youtu.be/c", Status: models.ClipCompleted},
		{URL: "https://youtu.be/d", Status: models.ClipFailed},
	}
	if err := list.Save(entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := list.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := map[string]models.ClipboardStatus{
		"https://youtu.be/a": models.ClipPending,
		"https://youtu.be/b": models.ClipPending,
		"https://youtu.be/d": models.ClipFailed,
	}
	if len(loaded) != len(want) {
		t.Fatalf("loaded %d entries, want %d: %+v", len(loaded), len(want), loaded)
	}
	for _, e := range loaded {
		status, ok := want[e.URL]
		if !ok {
			t.Errorf("unexpected entry %q survived", e.URL)
			continue
		}
		if e.Status != status {
			t.Errorf("entry %q status = %v, want %v", e.URL, e.Status, status)
		}
	}
}

// TestClipboardListMissingFile checks that a missing file loads as empty.
func TestClipboardListMissingFile(t *testing.T) {
	t.Parallel()

	list := file.NewClipboardList(filepath.Join(t.TempDir(), "nope.json"))
	loaded, err := list.Load()
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("missing file loaded %d entries", len(loaded))
	}
}

// TestClipboardListCorruptFile checks that garbage content surfaces an error.
func TestClipboardListCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clipboard_urls.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := file.NewClipboardList(path).Load(); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

// TestClipboardListOverwrite checks that saves replace, not append.
func TestClipboardListOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clipboard_urls.json")
	list := file.NewClipboardList(path)

	if err := list.Save([]models.ClipboardEntry{
		{URL: "https://youtu.be/a", Status: models.ClipPending},
		{URL: "https://youtu.be/b", Status: models.ClipPending},
	}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := list.Save([]models.ClipboardEntry{
		{URL: "https://youtu.be/c", Status: models.ClipFailed},
	}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := list.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].URL != "https://youtu.be/c" {
		t.Fatalf("loaded = %+v, want only the second save's entry", loaded)
	}

	// No stray temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
