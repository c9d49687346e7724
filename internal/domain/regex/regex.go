// Package regex holds pre-compiled regular expressions for output parsing.
package regex

import "regexp"

var (
	// Percent matches the first percentage figure in a progress line.
	Percent = regexp.MustCompile(`(\d+\.?\d*)%`)

	// Speed matches transfer rates such as "1.23MiB/s" or "500.00 KiB/s".
	Speed = regexp.MustCompile(`(\d+\.?\d*\s*[KMG]iB/s)`)

	// ETA matches "ETA 00:05" or "ETA 01:23:45".
	ETA = regexp.MustCompile(`ETA\s+(\d{2}:\d{2}(?::\d{2})?)`)

	// Filesize matches sizes such as "12.3MiB".
	Filesize = regexp.MustCompile(`(\d+\.?\d*\s*[KMG]iB)`)

	// ClockTime matches a full H:MM:SS / HH:MM:SS timestamp.
	ClockTime = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})$`)
)
