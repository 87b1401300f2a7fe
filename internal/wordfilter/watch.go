package wordfilter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Filter whenever its YAML file changes.
type Watcher struct {
	path    string
	filter  *Filter
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	// OnReload, if set, is called after every reload attempt.
	OnReload func(err error)

	started   atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher watches the directory containing path. Editors often replace
// files by rename, which a watch on the file itself would lose.
func NewWatcher(path string, f *Filter, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve word list path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		filter:  f,
		logger:  logger.With("component", "wordfilter.watcher"),
		watcher: fw,
		done:    make(chan struct{}),
	}, nil
}

// Run processes file events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	w.started.Store(true)
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("word_list_watch_error", "error", err)
		}
	}
}

// Close stops the watcher and waits for Run to return.
func (w *Watcher) Close(ctx context.Context) error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	if !w.started.Load() {
		return err
	}

	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (w *Watcher) reload() {
	rules, err := LoadFile(w.path)
	if err == nil {
		err = w.filter.Replace(rules)
	}

	if err != nil {
		// Keep serving the previous list.
		w.logger.Warn("word_list_reload_failed", "path", w.path, "error", err)
	} else {
		w.logger.Info("word_list_reloaded",
			"path", w.path,
			"words", len(rules.Words),
			"match", string(rules.Match),
		)
	}

	if w.OnReload != nil {
		w.OnReload(err)
	}
}
