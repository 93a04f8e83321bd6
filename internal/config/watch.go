package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toolgate/toolgate/internal/constants"
	"github.com/toolgate/toolgate/internal/logger"
)

// debounceWindow coalesces the burst of filesystem events an editor save
// produces into one reload.
const debounceWindow = 250 * time.Millisecond

// Watch reloads the store whenever the config directory changes, until
// ctx is done. A reload that fails validation is reported through onErr
// (may be nil) and the last good snapshot stays published.
func (s *Store) Watch(ctx context.Context, onErr func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	subdirs := map[string]bool{
		filepath.Join(s.dir, constants.RulesDirName): true,
		filepath.Join(s.dir, constants.HooksDirName): true,
	}
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	for dir := range subdirs {
		if _, statErr := os.Stat(dir); statErr != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// A rules/ or hooks/ directory created after startup must be
			// watched too, or files added there never trigger a reload.
			if ev.Op&fsnotify.Create != 0 && subdirs[ev.Name] {
				if addErr := watcher.Add(ev.Name); addErr != nil {
					logger.Warn("failed to watch new directory", "dir", ev.Name, "error", addErr)
				}
			}
			logger.Debug("config change detected", "path", ev.Name, "op", ev.Op.String())
			pending = time.After(debounceWindow)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-pending:
			pending = nil
			if err := s.Load(); err != nil {
				logger.Error("config reload failed, keeping previous snapshot", "error", err)
				if onErr != nil {
					onErr(err)
				}
				continue
			}
			logger.Info("config reloaded", "dir", s.dir)
		}
	}
}
