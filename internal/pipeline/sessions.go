package pipeline

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ziadkadry99/supportbot/internal/conversation"
)

// Session pairs a session ID with its conversation tracker. Turns within
// a session are serialized by the mutex; the tracker itself assumes one
// in-flight turn at a time.
type Session struct {
	ID      string
	mu      sync.Mutex
	tracker *conversation.Tracker
}

// Tracker returns the session's conversation tracker. Callers must hold
// the turn via Do.
func (s *Session) Tracker() *conversation.Tracker { return s.tracker }

// Do runs fn while holding the session's turn lock.
func (s *Session) Do(fn func(t *conversation.Tracker)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tracker)
}

// Sessions is an in-memory registry of live sessions. Sessions are
// created on demand and discarded on reset or end; there is no
// cross-session persistence.
type Sessions struct {
	mu         sync.RWMutex
	maxHistory int
	byID       map[string]*Session
}

// NewSessions creates a session registry whose trackers retain
// maxHistory exchanges.
func NewSessions(maxHistory int) *Sessions {
	return &Sessions{
		maxHistory: maxHistory,
		byID:       map[string]*Session{},
	}
}

// Create starts a new session and returns it.
func (sm *Sessions) Create() *Session {
	s := &Session{
		ID:      uuid.New().String(),
		tracker: conversation.NewTracker(sm.maxHistory),
	}

	sm.mu.Lock()
	sm.byID[s.ID] = s
	sm.mu.Unlock()

	return s
}

// Get returns the session with the given ID.
func (sm *Sessions) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.byID[id]
	return s, ok
}

// End discards the session and its context. It reports whether the
// session existed.
func (sm *Sessions) End(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.byID[id]
	delete(sm.byID, id)
	return ok
}

// Count returns the number of live sessions.
func (sm *Sessions) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.byID)
}
