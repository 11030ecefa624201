package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/soasis/docgen/internal/logfields"
)

// debounceWindow coalesces editor save bursts into one rebuild.
const debounceWindow = 300 * time.Millisecond

// Watcher observes a directory tree and fires a callback after changes settle.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	onChange func()
	debounce time.Duration
}

// NewWatcher watches root recursively. onChange runs after the debounce
// window with no further events.
func NewWatcher(root string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fs: fsw, root: root, onChange: onChange, debounce: debounceWindow}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error { return w.fs.Close() }

// Run processes events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			// New subdirectories must be picked up so nested edits register.
			if ev.Op.Has(fsnotify.Create) {
				if err := w.addRecursive(ev.Name); err != nil {
					slog.Debug("Could not watch new path", logfields.Path(ev.Name), logfields.Error(err))
				}
			}
			slog.Debug("Source change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			w.onChange()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// addRecursive registers root and every directory beneath it. Non-directory
// paths are ignored; fsnotify watches their parent.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

// relevant filters out events that never warrant a rebuild.
func relevant(ev fsnotify.Event) bool {
	if ev.Op.Has(fsnotify.Chmod) && ev.Op&^fsnotify.Chmod == 0 {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return true
}
