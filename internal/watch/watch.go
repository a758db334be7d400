// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package watch monitors directories for new or changed contract
// documents and hands them to a handler once writes have settled.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"contract-guard/internal/extract"
	"contract-guard/internal/observability"
)

// DefaultDebounce is how long a file must be quiet before it is analyzed.
// Editors and downloads produce bursts of write events for one file.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the path of a settled document
type Handler func(path string)

// Watcher monitors directories for supported document types
type Watcher struct {
	watcher   *fsnotify.Watcher
	handler   Handler
	debounce  time.Duration
	recursive bool
	observer  *observability.StandardObserver

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher over dir. When recursive is set,
// subdirectories (including ones created later) are watched too.
func NewWatcher(dir string, recursive bool, debounce time.Duration, handler Handler, observer *observability.StandardObserver) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch handler is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:   fsWatcher,
		handler:   handler,
		debounce:  debounce,
		recursive: recursive,
		observer:  observer,
		pending:   map[string]*time.Timer{},
	}

	if err := w.addDir(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Run processes events until the context is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.observer != nil {
				w.observer.LogOperation(observability.AnalysisObservabilityData{
					Component: "watcher",
					Operation: "watch_error",
					Success:   false,
					Error:     err.Error(),
				})
			}
		}
	}
}

// Close stops the watcher and cancels pending debounce timers
func (w *Watcher) Close() error {
	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// New subdirectories need their own watch in recursive mode
	if event.Has(fsnotify.Create) && w.recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addDir(event.Name)
			return
		}
	}

	if !extract.IsSupported(event.Name) {
		return
	}

	w.scheduleAnalysis(event.Name)
}

// scheduleAnalysis resets the debounce timer for path
func (w *Watcher) scheduleAnalysis(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.handler(path)
	})
}

// addDir registers dir (and its subdirectories in recursive mode)
func (w *Watcher) addDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", dir)
	}

	if !w.recursive {
		return w.watcher.Add(dir)
	}

	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}
