package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatch indicates the file watcher could not be set up.
var ErrWatch = errors.New("failed to watch input")

// watchDebounce groups the bursts of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

// watchInputs converts inputs again whenever they change, until ctx is
// canceled. discover lists the current inputs; convert runs one batch.
func watchInputs(ctx context.Context, inputPath string, discover func() ([]FileToConvert, error), convert func([]FileToConvert) int, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	defer func() { _ = w.Close() }()

	dirs, err := watchDirs(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWatch, d, err)
		}
	}
	logger.Info("watching for changes", "path", inputPath, "dirs", len(dirs))

	pending := make(map[string]struct{})
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := w.Add(ev.Name); err != nil {
					logger.Warn("cannot watch new directory", "dir", ev.Name, "error", err)
				}
				continue
			}
			if !isInputFile(ev.Name) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = struct{}{}
			timer.Reset(watchDebounce)

		case <-timer.C:
			files, err := discover()
			if err != nil {
				logger.Warn("rescanning inputs", "error", err)
				clear(pending)
				continue
			}
			changed := selectChanged(files, pending)
			clear(pending)
			if len(changed) > 0 {
				logger.Debug("inputs changed", "files", len(changed))
				convert(changed)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDirs returns the directories to watch for inputPath: the parent of a
// file, or a directory and all its subdirectories.
func watchDirs(inputPath string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Dir(inputPath)}, nil
	}

	var dirs []string
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// selectChanged keeps the files whose input path is in changed.
func selectChanged(files []FileToConvert, changed map[string]struct{}) []FileToConvert {
	var out []FileToConvert
	for _, f := range files {
		if _, ok := changed[filepath.Clean(f.InputPath)]; ok {
			out = append(out, f)
		}
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
