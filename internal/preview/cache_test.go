package preview_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"grabarr/internal/preview"
)

func frameFile(t *testing.T, dir string, n int) string {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("frame_%d.jpg", n))
	if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write frame file: %v", err)
	}
	return path
}

// TestCacheEviction fills the cache to capacity plus one and checks that
// exactly the least-recently-used entry is evicted and its backing file
// deleted.
func TestCacheEviction(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := preview.NewCache(3)

	paths := make(map[int]string)
	for ts := 0; ts < 3; ts++ {
		paths[ts] = frameFile(t, dir, ts)
		c.Put(ts, paths[ts])
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}

	// Insert a fourth: timestamp 0 is oldest and must go.
	paths[3] = frameFile(t, dir, 3)
	c.Put(3, paths[3])

	if c.Len() != 3 {
		t.Fatalf("len after eviction = %d, want 3", c.Len())
	}
	if _, ok := c.Get(0); ok {
		t.Error("oldest entry still present after eviction")
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Error("evicted entry's backing file was not deleted")
	}
	for ts := 1; ts <= 3; ts++ {
		if _, ok := c.Get(ts); !ok {
			t.Errorf("entry %d unexpectedly evicted", ts)
		}
		if _, err := os.Stat(paths[ts]); err != nil {
			t.Errorf("surviving entry %d lost its file: %v", ts, err)
		}
	}
}

// TestCacheGetPromotes checks that a Get saves an entry from the next
// eviction.
func TestCacheGetPromotes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := preview.NewCache(3)
	for ts := 0; ts < 3; ts++ {
		c.Put(ts, frameFile(t, dir, ts))
	}

	// Touch the oldest; timestamp 1 is now the LRU.
	if _, ok := c.Get(0); !ok {
		t.Fatal("expected hit for entry 0")
	}

	c.Put(3, frameFile(t, dir, 3))

	if _, ok := c.Get(0); !ok {
		t.Error("promoted entry was evicted")
	}
	if _, ok := c.Get(1); ok {
		t.Error("expected entry 1 to be the eviction victim")
	}
}

// TestCachePutExisting checks that re-putting a timestamp updates in place
// without eviction.
func TestCachePutExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := preview.NewCache(2)
	c.Put(5, frameFile(t, dir, 5))
	c.Put(6, frameFile(t, dir, 6))

	replacement := frameFile(t, dir, 50)
	c.Put(5, replacement)

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if path, _ := c.Get(5); path != replacement {
		t.Errorf("path = %q, want %q", path, replacement)
	}
}

// TestCacheClear checks that Clear drops bookkeeping but leaves files for
// directory teardown.
func TestCacheClear(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := preview.NewCache(3)
	path := frameFile(t, dir, 1)
	c.Put(1, path)

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("len after clear = %d, want 0", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("entry survived clear")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("clear must not delete backing files eagerly: %v", err)
	}

	// The cache stays usable after a clear.
	c.Put(2, frameFile(t, dir, 2))
	if _, ok := c.Get(2); !ok {
		t.Error("cache unusable after clear")
	}
}
