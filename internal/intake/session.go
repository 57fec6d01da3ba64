package intake

import "sync"

// Key identifies a conversation: one session per user per chat.
type Key struct {
	UserID int64
	ChatID int64
}

// Session stores conversation state and the typed draft for one conversation.
// A session is only ever touched by the turn currently processing it; the
// manager's lock protects the map, not the session.
type Session struct {
	State State
	Draft Draft
}

// Manager tracks in-flight intake sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[Key]*Session
}

// NewManager constructs an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[Key]*Session)}
}

// Start creates (or resets) the session for the key and returns it.
func (m *Manager) Start(k Key) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{State: StateIdle}
	m.sessions[k] = s
	return s
}

// Lookup returns the session for the key if one exists.
func (m *Manager) Lookup(k Key) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[k]
	return s, ok
}

// InProgress reports whether the key has an active, non-idle session.
func (m *Manager) InProgress(k Key) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[k]
	return ok && s.State != StateIdle
}

// End destroys the session for the key.
func (m *Manager) End(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, k)
}
