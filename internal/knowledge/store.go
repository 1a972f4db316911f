package knowledge

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type snapshot struct {
	base *Base
	err  error
}

// Store holds the current Base for concurrent readers. Reloads swap the
// whole snapshot, so a reader never sees a half-loaded sheet.
type Store struct {
	path   string
	logger *log.Logger

	mu      sync.Mutex // serializes reloads
	current atomic.Pointer[snapshot]
}

// NewStore returns an empty store for path. Call Reload to populate it.
func NewStore(path string, logger *log.Logger) *Store {
	s := &Store{path: path, logger: logger}
	s.current.Store(&snapshot{err: ErrNotLoaded})
	return s
}

// Path returns the data file the store reads.
func (s *Store) Path() string { return s.path }

// Current returns the loaded base, or the error that left the store empty.
func (s *Store) Current() (*Base, error) {
	snap := s.current.Load()
	return snap.base, snap.err
}

// Reload re-reads the data file. On failure the previous base, if any, stays
// in place and the error is returned.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, err := Load(s.path)
	if err != nil {
		prev := s.current.Load()
		if prev.base != nil {
			s.logger.Warn("knowledge reload failed, keeping previous sheet", "path", s.path, "err", err, "entries", prev.base.Len())
			return err
		}
		s.current.Store(&snapshot{err: err})
		s.logger.Error("knowledge load failed", "path", s.path, "err", err)
		return err
	}

	s.current.Store(&snapshot{base: base})
	s.logger.Info("knowledge loaded", "path", s.path, "entries", base.Len())
	return nil
}
