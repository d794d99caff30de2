package agent

import (
	"sync"
	"time"
)

// Session is a chat session known to this server. Sessions are recorded when
// the upstream agent accepts (or already holds) them, and queries are only
// proxied for recorded sessions.
type Session struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore is an in-memory registry of known sessions keyed by
// (user_id, session_id). Safe for concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

func sessionKey(userID, sessionID string) string {
	return userID + "/" + sessionID
}

// Put records a session. Re-recording an existing session keeps the original
// creation time.
func (s *SessionStore) Put(userID, sessionID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(userID, sessionID)
	if existing, ok := s.sessions[key]; ok {
		return existing
	}
	session := Session{
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
	s.sessions[key] = session
	return session
}

// Get looks up a recorded session.
func (s *SessionStore) Get(userID, sessionID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionKey(userID, sessionID)]
	return session, ok
}

// Len returns the number of recorded sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
