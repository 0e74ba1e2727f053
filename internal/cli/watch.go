package cli

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/cargograph/internal/config"
	"github.com/matzehuels/cargograph/pkg/errors"
	"github.com/matzehuels/cargograph/pkg/manifest"
	"github.com/matzehuels/cargograph/pkg/observability"
	"github.com/matzehuels/cargograph/pkg/scan"
)

// watchDebounce is how long the watcher waits after the last manifest event
// before regenerating.
const watchDebounce = 200 * time.Millisecond

// watch generates once, then regenerates after every batch of manifest
// changes under cfg.Root until ctx is cancelled. Failed regenerations are
// logged and do not stop the watcher.
func (c *CLI) watch(ctx context.Context, cfg *config.Config) error {
	logger := loggerFromContext(ctx)
	hooks := observability.Watch()

	if err := c.generate(ctx, cfg); err != nil {
		if errors.Is(err, errors.ErrCodeRootNotFound) {
			return err
		}
		logger.Error(errors.UserMessage(err))
	}

	ignore := watchIgnore(cfg)
	watcher, err := newTreeWatcher(cfg.Root, ignore)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	logger.Infof("Watching %s for manifest changes", cfg.Root)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
		changed string
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignore(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// new directories may hold manifests later on
				_ = watchTree(watcher, event.Name, ignore)
			}
			if !relevant(event) {
				continue
			}
			changed = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			trigger = timer.C

		case <-trigger:
			trigger = nil
			logger.Infof("Change detected: %s", changed)
			hooks.OnChange(ctx, changed)
			prog := newProgress(logger)
			err := c.generate(ctx, cfg)
			hooks.OnRegenerate(ctx, time.Since(prog.start), err)
			if err != nil {
				logger.Error(errors.UserMessage(err))
				continue
			}
			prog.done("Regenerated graph")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("Watcher error: %v", err)
		}
	}
}

// relevant reports whether event can change the graph.
func relevant(event fsnotify.Event) bool {
	if !manifest.IsCandidate(event.Name) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// watchIgnore returns the path filter for the watcher: hidden directories
// below the root, the configured output file and, in monolithic mode, the
// ignored path substrings.
func watchIgnore(cfg *config.Config) func(string) bool {
	opts := scan.Options{}
	if cfg.Monolithic {
		opts.IgnoredPaths = cfg.IgnorePaths
	}
	root := filepath.Clean(cfg.Root)
	return func(path string) bool {
		path = filepath.Clean(path)
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return true
		}
		if cfg.Output != "" && path == filepath.Clean(cfg.Output) {
			return true
		}
		return opts.Ignored(path)
	}
}

// newTreeWatcher creates a watcher covering root and every directory below
// it that ignore lets through. Failures are INTERNAL_ERROR: the root was
// already checked by the first generation, so they come from the OS (e.g.
// inotify limits) rather than from the user's input.
func newTreeWatcher(root string, ignore func(string) bool) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	if err := watchTree(watcher, root, ignore); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "watch %s", root)
	}
	return watcher, nil
}

// watchTree adds dir and every directory below it to watcher.
func watchTree(watcher *fsnotify.Watcher, dir string, ignore func(string) bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if ignore(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
