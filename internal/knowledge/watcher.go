package knowledge

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a Store when its data file changes on disk. The parent
// directory is watched so editors that replace the file are noticed, as is
// a file that only appears after startup.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	name     string
	debounce time.Duration
	logger   *log.Logger
}

// NewWatcher starts watching the directory of the store's data file.
func NewWatcher(store *Store, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(store.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", store.Path(), err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		store:    store,
		watcher:  w,
		name:     filepath.Base(abs),
		debounce: defaultDebounce,
		logger:   logger,
	}, nil
}

// SetDebounce changes how long the watcher waits for writes to settle.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run blocks until ctx is done, reloading the store after each burst of
// changes to the data file.
func (w *Watcher) Run(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Debug("data file changed", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "err", err)
		case <-fire:
			fire = nil
			// Reload logs its own outcome.
			_ = w.store.Reload()
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
