package service

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/notebuilder/internal/logfields"
)

// Watcher re-runs builds when the content tree changes, for iterative
// authoring against not-yet-created targets. Every rebuild starts from fresh
// cache and dead-link state: a note created since the last build must
// invalidate earlier "dead" verdicts.
type Watcher struct {
	builder      *Builder
	debounceTime time.Duration
}

// NewWatcher creates a watcher around an existing builder.
func NewWatcher(builder *Builder) *Watcher {
	return &Watcher{
		builder:      builder,
		debounceTime: 500 * time.Millisecond, // Debounce rapid editor save bursts
	}
}

// Run builds once, then blocks rebuilding on changes until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	defer watcher.Close()

	root, err := filepath.Abs(w.builder.cfg.Content.Root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve content root").Build()
	}
	if err := addRecursive(watcher, root); err != nil {
		return err
	}

	if _, err := w.builder.Run(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	slog.Info("Watching for changes", logfields.Path(root))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watches.
				if err := addRecursive(watcher, event.Name); err == nil {
					slog.Debug("Watching new path", logfields.Path(event.Name))
				}
			}
			if !isRelevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounceTime)
				timerC = timer.C
			} else {
				timer.Reset(w.debounceTime)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := w.builder.Run(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// addRecursive watches path and, if it is a directory, its whole subtree.
func addRecursive(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // Unreadable paths are simply not watched
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("dir", p).
				Build()
		}
		return nil
	})
}

// isRelevant filters events down to note and asset content changes.
func isRelevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return !strings.HasPrefix(name, ".")
}
