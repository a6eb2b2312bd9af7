package command

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eviworld/pixtoon-voice/pkg/chat"
)

// Session holds the conversation state for one caller. Each session
// has its own history, so concurrent callers never see each other's
// turns.
type Session struct {
	ID        string
	History   *chat.History
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch records session activity.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen returns the time of the most recent activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions is a registry of active conversation sessions keyed by ID.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxTurns int
}

// NewSessions creates a session registry. maxTurns bounds each
// session's history; 0 means unbounded.
func NewSessions(maxTurns int) *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		maxTurns: maxTurns,
	}
}

// GetOrCreate returns the session with the given ID, creating it if
// needed. An empty ID creates a fresh session with a generated ID.
func (r *Sessions) GetOrCreate(id string) *Session {
	if id != "" {
		r.mu.RLock()
		session, ok := r.sessions[id]
		r.mu.RUnlock()
		if ok {
			session.Touch()
			return session
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	} else if session, ok := r.sessions[id]; ok {
		session.Touch()
		return session
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		History:   chat.NewHistory(r.maxTurns),
		CreatedAt: now,
		lastSeen:  now,
	}
	r.sessions[id] = session
	return session
}

// Len returns the number of active sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PruneIdle removes sessions idle longer than maxIdle and returns the
// number removed.
func (r *Sessions) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
