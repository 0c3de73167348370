// Package watch reports edits to project prompt overrides.
//
// It only notices changes; it never caches content. Prompt resolution
// still reads the override directory on every call.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/HendryAvila/project-memory-mcp/internal/logging"
	"github.com/HendryAvila/project-memory-mcp/internal/prompt"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 250 * time.Millisecond

// Notifier is called with the template name of a changed override.
type Notifier func(name string)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher watches <root>/.project-memory/prompts.
type Watcher struct {
	dir      string
	notify   Notifier
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	pending map[string]time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a Watcher for a project root. Call Start to begin watching.
func New(root string, notify Notifier, logger *zap.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      prompt.OverridesPath(root),
		notify:   notify,
		logger:   logging.OrNop(logger),
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Start begins watching in a background goroutine. It reports false
// without error when the override directory does not exist.
func (w *Watcher) Start(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return true, nil
	}

	info, err := os.Stat(w.dir)
	if errors.Is(err, fs.ErrNotExist) {
		w.logger.Debug("override directory missing, watcher not started", zap.String("dir", w.dir))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return false, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return false, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.fsw = fsw
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.run(ctx)

	w.logger.Info("watching prompt overrides", zap.String("dir", w.dir))
	return true, nil
}

// Close stops the watcher and waits for its goroutine to exit. It is safe
// to call more than once and on a watcher that never started.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	done, fsw := w.doneCh, w.fsw
	w.mu.Unlock()

	<-done
	return fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("override watcher error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	name := filepath.Base(event.Name)
	// Editor swap and backup files.
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return
	}

	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

// flush reports every pending name that has been quiet for the debounce
// period.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	var ready []string
	for name, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, name)
			delete(w.pending, name)
		}
	}
	w.mu.Unlock()

	for _, name := range ready {
		w.logger.Info("override changed", zap.String("template", name))
		if w.notify != nil {
			w.notify(name)
		}
	}
}
