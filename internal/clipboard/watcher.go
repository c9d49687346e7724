// Package clipboard polls the system clipboard for newly copied URLs.
package clipboard

import (
	"context"
	"strings"
	"time"

	systemclip "github.com/atotto/clipboard"

	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// Watcher polls the clipboard at a fixed interval and reports each new
// distinct value once. Repeats of the same content are suppressed until a
// different value appears.
type Watcher struct {
	read     func() (string, error)
	interval time.Duration
	onText   func(string)

	last string
}

// NewWatcher builds a Watcher over the system clipboard, invoking onText for
// every newly observed value.
func NewWatcher(onText func(string)) *Watcher {
	return &Watcher{
		read:     systemclip.ReadAll,
		interval: consts.ClipboardPollInterval,
		onText:   onText,
	}
}

// Run polls until the context ends. Clipboard read failures are logged at
// debug level only; headless environments fail every read and would otherwise
// flood the log.
func (w *Watcher) Run(ctx context.Context) {
	// Seed with the current content so whatever was copied before startup is
	// not treated as a new event.
	if initial, err := w.read(); err == nil {
		w.last = initial
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logging.I("Clipboard watcher running (every %v)", w.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	content, err := w.read()
	if err != nil {
		logging.D(3, "Clipboard read: %v", err)
		return
	}
	if content == w.last {
		return
	}
	w.last = content

	text := strings.TrimSpace(content)
	if text == "" {
		return
	}
	w.onText(text)
}
