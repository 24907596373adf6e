package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher reports changes anywhere under a directory tree.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

func NewDirWatcher(dir string, logger *slog.Logger) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &DirWatcher{watcher: w, logger: logger}, nil
}

// Run calls onChange for every write, create, remove or rename until ctx is
// done. New subdirectories are watched as they appear.
func (dw *DirWatcher) Run(ctx context.Context, onChange func(path string)) {
	defer dw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					dw.watcher.Add(event.Name)
				}
			}
			dw.logger.Debug("static change", "path", event.Name, "op", event.Op.String())
			onChange(event.Name)
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Warn("watcher error", "error", err)
		}
	}
}
