// Package proc owns the lifecycle of external tool subprocesses: spawning,
// line-oriented output capture, and graceful-then-forced termination.
package proc

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// Handle wraps one live external-tool invocation. It is owned exclusively by
// the job that spawned it.
type Handle struct {
	cmd       *exec.Cmd
	stdout    *os.File
	stderrBuf *bytes.Buffer
	startedAt time.Time

	waitOnce sync.Once
	waitErr  error
	done     chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Start spawns a subprocess with line-buffered stdout capture. With
// mergeStderr, stderr shares the stdout stream (the downloader interleaves
// progress across both); otherwise stderr is buffered for error reporting.
func Start(ctx context.Context, bin string, args []string, mergeStderr bool) (*Handle, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	h := &Handle{
		cmd:    cmd,
		stdout: pr,
		done:   make(chan struct{}),
	}

	cmd.Stdout = pw
	if mergeStderr {
		cmd.Stderr = pw
	} else {
		h.stderrBuf = &bytes.Buffer{}
		cmd.Stderr = h.stderrBuf
	}

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return nil, fmt.Errorf("command start error: %w", err)
	}

	// The child holds its own copy of the write end.
	pw.Close()
	h.startedAt = time.Now()

	logging.D(1, "Started %s (PID %d) with args: %v", bin, cmd.Process.Pid, args)
	return h, nil
}

// Scanner returns a line scanner over the process output. The stream supports
// a single consumption pass tied to the live process and ends when the
// process closes its output.
func (h *Handle) Scanner() *bufio.Scanner {
	return bufio.NewScanner(h.stdout)
}

// Stderr returns captured stderr output when stderr was not merged.
func (h *Handle) Stderr() string {
	if h.stderrBuf == nil {
		return ""
	}
	return h.stderrBuf.String()
}

// PID returns the subprocess identity.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// StartedAt returns when the subprocess was spawned.
func (h *Handle) StartedAt() time.Time {
	return h.startedAt
}

// Wait blocks until the subprocess exits and returns its exit error. Safe to
// call from multiple goroutines.
func (h *Handle) Wait() error {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
		close(h.done)
	})
	<-h.done
	return h.waitErr
}

// Finished reports whether the subprocess has been reaped.
func (h *Handle) Finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Stop terminates the subprocess: graceful signal first, forced kill once the
// grace timeout passes. Pipes are closed on every path, and errors from
// resources already gone are swallowed. Idempotent.
func (h *Handle) Stop(grace time.Duration) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	defer h.closePipes()

	if h.Finished() {
		return
	}

	if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Likely already exited between the check and the signal.
		logging.D(1, "Terminate signal for PID %d: %v", h.PID(), err)
	}

	// Reap in the background in case the owner's Wait is not yet running.
	go h.Wait()

	select {
	case <-h.done:
	case <-time.After(grace):
		logging.W("Process %d did not terminate within %v, forcing kill", h.PID(), grace)
		if err := h.cmd.Process.Kill(); err != nil {
			logging.D(1, "Kill for PID %d: %v", h.PID(), err)
		}
		<-h.done
	}
}

// StopDefault stops with the standard grace period.
func (h *Handle) StopDefault() {
	h.Stop(consts.ProcessTerminateTimeout)
}

func (h *Handle) closePipes() {
	// Already-closed pipes are the desired end state.
	_ = h.stdout.Close()
}
