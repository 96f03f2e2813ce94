package ml

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ArtifactWatcher reports changes to loaded artifact files. Artifacts are
// read once at startup, so a change only takes effect after a restart; the
// watcher exists to tell the operator that.
type ArtifactWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	logger   *zap.Logger
	onChange func(path string, op fsnotify.Op)
}

type WatcherOption func(*ArtifactWatcher)

// WithChangeHook is called for every relevant event after it is logged.
func WithChangeHook(fn func(path string, op fsnotify.Op)) WatcherOption {
	return func(w *ArtifactWatcher) { w.onChange = fn }
}

func NewArtifactWatcher(paths []string, logger *zap.Logger, opts ...WatcherOption) (*ArtifactWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &ArtifactWatcher{
		watcher: fw,
		files:   make(map[string]bool, len(paths)),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(w)
	}

	// watch directories so that files replaced by rename are still seen
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (w *ArtifactWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("artifact watcher error", zap.Error(err))
		}
	}
}

func (w *ArtifactWatcher) handle(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Warn("artifact changed on disk; restart the service to load it",
		zap.String("path", abs),
		zap.String("op", event.Op.String()),
	)
	if w.onChange != nil {
		w.onChange(abs, event.Op)
	}
}

func (w *ArtifactWatcher) Close() error {
	return w.watcher.Close()
}
