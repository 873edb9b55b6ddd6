// Package watch notifies the outer rebuild loop when the open file
// changes on disk, driving the `Reload` exit reason.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps an fsnotify watch on path's containing directory (not the
// file itself — editors commonly save via rename-over, which would
// silently drop a direct watch on the old inode) and debounces bursts of
// events (a single save often fires write+chmod+rename in quick
// succession) into a single notification per settle window.
type Watcher struct {
	fsw *fsnotify.Watcher
	ch  chan struct{}
}

// New starts watching path, firing Chan() at most once per debounce
// window after the file changes.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w := &Watcher{fsw: fsw, ch: make(chan struct{}, 1)}
	go w.run(filepath.Clean(path), debounce)
	return w, nil
}

func (w *Watcher) run(path string, debounce time.Duration) {
	var timer *time.Timer
	fire := func() {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fire)

		case _, ok := <-w.fsw.Errors:
			// File-watcher notification failures are silent per SPEC_FULL
			// §7 — the polling-free push model just misses this one
			// change; `:reload` remains available.
			if !ok {
				return
			}
		}
	}
}

// Chan delivers one notification per debounced burst of changes.
func (w *Watcher) Chan() <-chan struct{} { return w.ch }

func (w *Watcher) Close() error { return w.fsw.Close() }
