package config

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/wayfinder/internal/logging"
)

// Watcher reports changes to content files below a directory.
// Bursts of events for the same file are coalesced within the settle window.
type Watcher struct {
	dir    string
	exts   []string
	settle time.Duration
	logger *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithExtensions limits reported files to the given extensions (".yaml", ".md", ...).
func WithExtensions(exts ...string) WatcherOption {
	return func(w *Watcher) {
		w.exts = exts
	}
}

// WithSettle overrides the coalescing window. Defaults to 100ms.
func WithSettle(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.settle = d
	}
}

// WithWatcherLogger sets the logger for watcher errors.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher watches dir and every subdirectory present when Watch starts.
func NewWatcher(dir string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:    dir,
		exts:   []string{".yaml", ".yml", ".json", ".md"},
		settle: 100 * time.Millisecond,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch emits the slash-separated path, relative to the directory, of each changed file.
// The channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("content watcher: %w", err)
	}

	err = filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("content watcher add %s: %w", w.dir, err)
	}

	out := make(chan string, 1)
	go w.loop(ctx, fw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer fw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = fw.Add(ev.Name)
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(ev.Name) {
				continue
			}
			pending[w.relative(ev.Name)] = struct{}{}
			timer.Reset(w.settle)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("content watcher error", "dir", w.dir, "err", err)
		case <-timer.C:
			for name := range pending {
				select {
				case out <- name:
				case <-ctx.Done():
					return
				}
			}
			clear(pending)
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (w *Watcher) relative(name string) string {
	rel, err := filepath.Rel(w.dir, name)
	if err != nil {
		return filepath.ToSlash(name)
	}
	return filepath.ToSlash(rel)
}
