package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Output runs a short-lived tool invocation to completion under a timeout and
// returns its trimmed stdout. Nonzero exits surface as errors carrying the
// tool's stderr.
func Output(ctx context.Context, timeout time.Duration, bin string, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s timed out after %v: %w", bin, timeout, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s failed: %w: %s", bin, err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", bin, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
