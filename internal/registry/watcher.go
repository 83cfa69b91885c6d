package registry

import (
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bpod/frontend-context-guidelines/internal/logging"
)

// reloadDebounce coalesces bursts of filesystem events into one reload.
const reloadDebounce = 200 * time.Millisecond

// Watcher keeps a registry snapshot current while the instruction roots
// change on disk. It publishes complete immutable snapshots through an
// atomic pointer: readers always see a consistent, fully-loaded set, never
// a partial one. A failed reload keeps the previous snapshot.
type Watcher struct {
	roots []string
	opts  Options

	snap atomic.Pointer[Snapshot]
	fsw  *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher loads an initial snapshot and begins watching the roots.
// Callers must Close the watcher when done.
func NewWatcher(roots []string, opts Options) (*Watcher, error) {
	snap, err := LoadAll(roots, opts)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		roots: roots,
		opts:  opts,
		fsw:   fsw,
		done:  make(chan struct{}),
	}
	w.snap.Store(snap)
	w.addWatches()

	go w.run()
	return w, nil
}

// Snapshot returns the current snapshot. Safe for concurrent use; the
// returned value is immutable.
func (w *Watcher) Snapshot() *Snapshot {
	return w.snap.Load()
}

// Close stops watching. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

// addWatches registers every directory under the roots. New subdirectories
// are picked up again after each reload.
func (w *Watcher) addWatches() {
	for _, root := range w.roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if werr := w.fsw.Add(path); werr != nil {
					logging.Debug("watch add failed", logging.Path(path), logging.Err(werr))
				}
			}
			return nil
		})
	}
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevantEvent(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("watch error", logging.Err(err))

		case <-fire:
			timer = nil
			fire = nil
			w.reload()
		}
	}
}

// relevantEvent filters events to those that can change the document set.
func relevantEvent(ev fsnotify.Event) bool {
	return ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Remove) ||
		ev.Op.Has(fsnotify.Rename)
}

// reload loads a fresh snapshot and swaps it in atomically. On failure the
// previous snapshot stays published so queries keep a consistent view.
func (w *Watcher) reload() {
	snap, err := LoadAll(w.roots, w.opts)
	if err != nil {
		logging.Error("registry reload failed, keeping previous snapshot", logging.Err(err))
		return
	}
	w.snap.Store(snap)
	w.addWatches()
	logging.Info("registry reloaded", logging.Count(snap.Len()))
}
