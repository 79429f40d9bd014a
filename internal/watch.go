package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay coalesces the burst of write events most editors emit
// when saving a file.
const debounceDelay = 100 * time.Millisecond

// StartWatching re-runs the flatten every time the input tree file is
// written, until StopWatching is called. The watch is registered on the
// input file's directory because many editors replace the file on save
// rather than writing it in place.
func (e *Engine) StartWatching(outputPath string) error {
	if e.isWatching {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(e.InputPath())); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", e.InputPath(), err)
	}

	e.watcher = watcher
	e.isWatching = true
	go e.watchLoop(outputPath)
	return nil
}

// StopWatching stops the watch loop and releases the watcher.
func (e *Engine) StopWatching() error {
	if !e.isWatching {
		return nil
	}
	e.isWatching = false
	return e.watcher.Close()
}

func (e *Engine) watchLoop(outputPath string) {
	for e.isWatching {
		select {
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event, outputPath)
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event, outputPath string) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if filepath.Clean(event.Name) != filepath.Clean(e.InputPath()) {
		return
	}

	// wait for a while after the change so that a save producing several
	// events is flattened once
	time.Sleep(debounceDelay)

	stats, err := e.FlattenFile(context.Background(), outputPath)
	if err != nil {
		e.logger.Error("re-flatten failed",
			zap.String("input", e.InputPath()),
			zap.Error(err))
		return
	}
	e.logger.Info("re-flattened tree",
		zap.String("input", e.InputPath()),
		zap.String("output", outputPath),
		zap.Int("strategies", stats.LeavesEmitted),
		zap.Int("pruned", stats.BranchesPruned))
}
