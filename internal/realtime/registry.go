package realtime

import "sync"

// Session is a live transport connection capable of server-initiated pushes.
type Session interface {
	// Push delivers a named event with a JSON-serializable payload. It may
	// fail at any time; the session can vanish between a registry lookup
	// and the push.
	Push(event string, payload interface{}) error
}

// Registry maps authenticated user IDs to their single live session. A new
// connection for a user replaces the previous one; there is no multi-session
// fan-out. State is process-local and starts empty on every restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Register stores the session for the user, overwriting any existing entry.
func (r *Registry) Register(userID string, session Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = session
}

// Unregister removes the user's entry. Removing an absent user is a no-op.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// UnregisterSession removes the user's entry only if it still maps to the
// given session. A stale connection dropping after a quick reconnect must
// not knock the replacement offline.
func (r *Registry) UnregisterSession(userID string, session Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[userID] == session {
		delete(r.sessions, userID)
	}
}

// IsOnline reports whether the user currently has a registered session.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[userID]
	return ok
}

// Lookup returns the user's current session, or nil if none is registered.
// The session may disconnect at any point after this returns.
func (r *Registry) Lookup(userID string) Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[userID]
}

// ListOnline returns a point-in-time snapshot of registered user IDs. The
// snapshot can be stale by the time the caller acts on it.
func (r *Registry) ListOnline() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]string, 0, len(r.sessions))
	for userID := range r.sessions {
		users = append(users, userID)
	}
	return users
}
