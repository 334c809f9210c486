// Package watcher delivers screen-capture file events from a watched
// directory: one gathering event carrying everything that already exists,
// then updated events as new captures land.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// EventType distinguishes the initial enumeration from live updates.
type EventType int

const (
	// Gathered carries the full set of capture files present at startup.
	Gathered EventType = iota

	// Updated carries one or more newly observed capture files.
	Updated
)

// Event is one notification from the screenshot source.
type Event struct {
	Type  EventType
	Paths []string
}

// Watcher watches a directory for new screen-capture files.
type Watcher struct {
	dir    string
	logger *zap.Logger
	events chan Event
	fsw    *fsnotify.Watcher
	done   chan struct{}
}

// New creates a watcher for dir. Start must be called before events flow.
func New(dir string, logger *zap.Logger) *Watcher {
	return &Watcher{
		dir:    dir,
		logger: logger,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

// Events returns the channel events are delivered on.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start enumerates the directory, emits the Gathered event, and begins
// streaming Updated events. Write and rename notifications are forwarded
// too; the dispatcher deduplicates by identity.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fs watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.fsw = fsw

	existing, err := w.enumerate()
	if err != nil {
		fsw.Close()
		return err
	}
	w.logger.Info("Finished gathering existing captures",
		zap.String("dir", w.dir),
		zap.Int("count", len(existing)))
	w.events <- Event{Type: Gathered, Paths: existing}

	go w.loop()
	return nil
}

// Stop ends event delivery.
func (w *Watcher) Stop() {
	close(w.done)
	if w.fsw != nil {
		w.fsw.Close()
	}
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !isCaptureFile(ev.Name) {
				continue
			}
			select {
			case w.events <- Event{Type: Updated, Paths: []string{ev.Name}}:
			case <-w.done:
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) enumerate() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", w.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isCaptureFile(entry.Name()) {
			paths = append(paths, filepath.Join(w.dir, entry.Name()))
		}
	}
	return paths, nil
}

func isCaptureFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".gif", ".bmp":
		return true
	}
	return false
}
