package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

type entry struct {
	mu      sync.Mutex
	state   *SessionState
	touched time.Time
}

// Registry keeps isolated in-memory sessions for concurrent callers.
// Operations on one session are serialized; different sessions never
// block each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry), now: time.Now}
}

// Create starts a session with a fresh id.
func (r *Registry) Create(user string) *SessionState {
	state := NewSessionState(uuid.NewString(), user)

	r.mu.Lock()
	r.sessions[state.ID] = &entry{state: state, touched: r.now()}
	r.mu.Unlock()
	return state
}

// With runs fn while holding the session's lock.
func (r *Registry) With(id string, fn func(*SessionState) error) error {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()
	return fn(e.state)
}

// Delete forgets a session and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Sweep forgets sessions not used within idle and returns how many were
// dropped. A session whose lock is held is in use and always survives.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		stale := e.touched.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
