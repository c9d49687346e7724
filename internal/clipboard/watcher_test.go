package clipboard

import (
	"errors"
	"testing"
)

// TestPollReportsNewValues checks change detection and duplicate suppression.
func TestPollReportsNewValues(t *testing.T) {
	t.Parallel()

	var seen []string
	w := &Watcher{
		onText: func(s string) { seen = append(seen, s) },
	}

	content := "https://youtu.be/a"
	w.read = func() (string, error) { return content, nil }

	w.poll()
	w.poll() // unchanged content reports nothing new
	content = "https://youtu.be/b"
	w.poll()

	want := []string{"https://youtu.be/a", "https://youtu.be/b"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

// TestPollSkipsBlanksAndErrors checks whitespace and read-failure handling.
func TestPollSkipsBlanksAndErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	w := &Watcher{
		onText: func(string) { calls++ },
	}

	w.read = func() (string, error) { return "", errors.New("no clipboard") }
	w.poll()

	w.read = func() (string, error) { return "   \n", nil }
	w.poll()

	if calls != 0 {
		t.Fatalf("onText called %d times for blank/error reads", calls)
	}

	// Trimmed content is reported trimmed.
	var got string
	w.onText = func(s string) { got = s }
	w.read = func() (string, error) { return "  https://youtu.be/x \n", nil }
	w.poll()
	if got != "https://youtu.be/x" {
		t.Fatalf("got %q, want trimmed URL", got)
	}
}
