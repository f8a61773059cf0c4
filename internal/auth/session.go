package auth

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Session is the per-browser state: who is logged in and the single active
// CSRF token. The same record is shared by every concurrent request
// carrying the cookie, so the mutable fields sit behind a mutex. The zero
// value is an anonymous session.
type Session struct {
	ID string

	mu        sync.Mutex
	loggedIn  string // admin identity, empty while anonymous
	csrfToken string
}

// IsAdmin reports whether the session carries a login marker.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn != ""
}

// Login marks the session as belonging to the named admin.
func (s *Session) Login(username string) {
	s.mu.Lock()
	s.loggedIn = username
	s.mu.Unlock()
}

// GenerateCSRFToken returns the active token, minting one when none is
// pending. Idempotent until the token is consumed by CheckCSRFToken.
func (s *Session) GenerateCSRFToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.csrfToken == "" {
		parts := strings.Split(uuid.NewString(), "-")
		s.csrfToken = parts[len(parts)-1]
	}
	return s.csrfToken
}

// CheckCSRFToken validates candidate against the active token. Every check
// consumes the active token, so a validated token cannot be replayed and a
// failed check forces regeneration too.
func (s *Session) CheckCSRFToken(candidate string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.csrfToken
	s.csrfToken = ""
	return token != "" && token == candidate
}

// Sessions tracks live sessions by cookie id.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*Session)}
}

// Get returns the session for id, or nil when none exists.
func (m *Sessions) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// New mints a session with a fresh random id.
func (m *Sessions) New() *Session {
	session := &Session{ID: uuid.NewString()}
	m.mu.Lock()
	m.byID[session.ID] = session
	m.mu.Unlock()
	return session
}

// Forget drops the whole session record: login marker and any pending
// CSRF token.
func (m *Sessions) Forget(id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
}
