// Package session keeps one chat session per visitor. Nothing here is
// shared between sessions or written to disk.
package session

import (
	"sync"
	"time"

	"campusbot/internal/page"
	"campusbot/internal/transcript"

	"github.com/google/uuid"
)

// Session owns one visitor's transcript and selected page.
type Session struct {
	ID string

	turnMu sync.Mutex // held for the whole of a chat turn

	mu         sync.Mutex
	transcript transcript.Transcript
	page       page.State
	lastSeen   time.Time
}

// New returns an empty session on the chat page.
func New(id string) *Session {
	return &Session{ID: id, page: page.Chat, lastSeen: time.Now()}
}

// WithTurn runs fn while holding the session's turn lock, so two turns on
// the same session never interleave.
func (s *Session) WithTurn(fn func()) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	fn()
}

// Append adds a message to the transcript.
func (s *Session) Append(m transcript.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript.Append(m)
}

// Messages returns the transcript in chronological order.
func (s *Session) Messages() []transcript.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.All()
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Len()
}

// Page returns the selected view.
func (s *Session) Page() page.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetPage selects a view.
func (s *Session) SetPage(p page.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
}

// Touch records activity at t.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = t
}

// LastSeen returns the time of the latest activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store indexes live sessions by ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a new session with a random ID.
func (st *Store) Create() *Session {
	s := New(uuid.NewString())
	s.Touch(st.now())

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session for id and marks it active.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		s.Touch(st.now())
	}
	return s, ok
}

// GetOrCreate returns the session for id, or a new one if id is unknown.
// The boolean reports whether a session was created.
func (st *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}
	return st.Create(), true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than idle and returns how many were
// removed.
func (st *Store) Sweep(idle time.Duration) int {
	cutoff := st.now().Add(-idle)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
