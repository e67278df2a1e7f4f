// Package watcher notices when the mounted source file is modified (an
// editor saving over it, a script rewriting it in place) and logs a
// warning with a correlation id, rather than silently letting the
// in-memory shadow tree and the on-disk file drift apart. It does not
// tell writers apart: the write a .save persist makes is logged the
// same way as a write by another program.
package watcher

import (
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Watcher tails one file path for external writes.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	done chan struct{}
}

// New starts watching path. Callers must call Close when the mount
// unwinds.
func New(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, path: path, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	id := uuid.NewString()
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Printf("jsonfs: watcher %s: external change to %s (%s) — in-memory state may now be stale", id, w.path, event.Op)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("jsonfs: watcher %s: error watching %s: %v", id, w.path, err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
