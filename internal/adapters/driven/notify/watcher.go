// Package notify implements the file watch layer over fsnotify.
package notify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// eventBuffer bounds the delivery channel. When the consumer falls this
// far behind, the watcher reports an error instead of blocking the OS
// event pump; the watch service restarts the layer and reconciliation
// heals whatever was dropped.
const eventBuffer = 256

// Watcher translates fsnotify events into document changes. Directories
// are registered recursively, including ones created while watching.
type Watcher struct {
	fs     *fsnotify.Watcher
	root   string
	events chan domain.FileChange
	errs   chan error
	done   chan struct{}

	closeOnce sync.Once
}

// New creates an unstarted watch layer.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fs:     fsw,
		events: make(chan domain.FileChange, eventBuffer),
		errs:   make(chan error, 8),
		done:   make(chan struct{}),
	}, nil
}

// Watch registers root and every non-hidden subdirectory, then starts
// the event pump.
func (w *Watcher) Watch(root string) error {
	w.root = root
	if err := w.addTree(root, false); err != nil {
		return err
	}
	go w.pump()
	return nil
}

// Events returns the change delivery channel. Closed by Close.
func (w *Watcher) Events() <-chan domain.FileChange {
	return w.events
}

// Errors returns the watch-layer failure channel.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching. The events channel closes once the pump drains.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// pump owns the events channel: it translates OS events until the
// underlying watcher closes, then closes the channel.
func (w *Watcher) pump() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// handle translates one fsnotify event. Directory creation extends the
// watch; hidden paths and chmod-only events are dropped.
func (w *Watcher) handle(event fsnotify.Event) {
	if w.hidden(event.Name) {
		return
	}

	now := time.Now()

	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			// Files already inside the new tree produced no events of
			// their own, so synthesise them while registering it.
			if err := w.addTree(event.Name, true); err != nil {
				w.report(err)
			}
			return
		}
		w.deliver(domain.FileChange{Path: event.Name, Type: domain.ChangeCreated, At: now})

	case event.Op.Has(fsnotify.Write):
		w.deliver(domain.FileChange{Path: event.Name, Type: domain.ChangeModified, At: now})

	case event.Op.Has(fsnotify.Remove):
		w.deliver(domain.FileChange{Path: event.Name, Type: domain.ChangeDeleted, At: now})

	case event.Op.Has(fsnotify.Rename):
		// The OS only reports the vacated name; the new location, if
		// still watched, arrives as its own create. The watch service
		// folds this into a delete.
		w.deliver(domain.FileChange{Path: event.Name, Type: domain.ChangeRenamed, At: now})
	}
}

// addTree registers a directory tree, skipping hidden directories.
// With announce set, regular files found along the way are delivered
// as created.
func (w *Watcher) addTree(root string, announce bool) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && w.hidden(p) {
				return filepath.SkipDir
			}
			if err := w.fs.Add(p); err != nil {
				return fmt.Errorf("watch %s: %w", p, err)
			}
			return nil
		}
		if announce && !w.hidden(p) {
			w.deliver(domain.FileChange{Path: p, Type: domain.ChangeCreated, At: time.Now()})
		}
		return nil
	})
}

// deliver hands a change to the consumer without ever blocking the pump.
func (w *Watcher) deliver(change domain.FileChange) {
	select {
	case w.events <- change:
	default:
		w.report(fmt.Errorf("event queue overflowed at %s", change.Path))
	}
}

// report surfaces a watch-layer failure, dropping it when nobody reads.
func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// hidden judges the path below the watched root. The root's own
// components do not count, so a root living inside a hidden directory
// still delivers events.
func (w *Watcher) hidden(p string) bool {
	if w.root != "" {
		if rel, err := filepath.Rel(w.root, p); err == nil && !strings.HasPrefix(rel, "..") {
			return isHidden(rel)
		}
	}
	return isHidden(p)
}

// isHidden reports whether any component of the path starts with a dot.
// Bare "." and ".." components do not count.
func isHidden(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}
