package fetch_test

import (
	"testing"

	"grabarr/internal/fetch"
)

// TestParseDuration checks the downloader's duration string forms.
func TestParseDuration(t *testing.T) {
	t.Parallel()

	good := []struct {
		in   string
		want int
	}{
		{"45", 45},
		{"2:30", 150},
		{"02:30", 150},
		{"1:02:03", 3723},
		{"10:00:00", 36000},
		{" 90 \n", 90},
	}
	for _, tc := range good {
		got, err := fetch.ParseDuration(tc.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, in := range []string{"", "abc", "1:2:3:4", "1:xx"} {
		if _, err := fetch.ParseDuration(in); err == nil {
			t.Errorf("ParseDuration(%q): expected error", in)
		}
	}
}

// TestEstimateTrimmedSize checks linear scaling and the unknown-input cases.
func TestEstimateTrimmedSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		size     int64
		fullDur  int
		trimDur  int
		want     int64
	}{
		{"half the video is half the bytes", 1000, 100, 50, 500},
		{"window longer than source caps at full size", 1000, 100, 200, 1000},
		{"unknown size yields no estimate", 0, 100, 50, 0},
		{"unknown duration yields no estimate", 1000, 0, 50, 0},
		{"empty window yields no estimate", 1000, 100, 0, 0},
	}
	for _, tc := range tests {
		if got := fetch.EstimateTrimmedSize(tc.size, tc.fullDur, tc.trimDur); got != tc.want {
			t.Errorf("%s: EstimateTrimmedSize(%d, %d, %d) = %d, want %d",
				tc.name, tc.size, tc.fullDur, tc.trimDur, got, tc.want)
		}
	}
}
