package chatbot

import (
	"sync"
	"time"
)

type registryEntry struct {
	session  *Session
	lastSeen time.Time
}

// Registry maps session identifiers to sessions. Sessions are created on
// first use and removed only by idle eviction; Reset clears a session in place.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	now      func() time.Time
}

// NewRegistry returns an empty registry using the wall clock.
func NewRegistry() *Registry {
	return NewRegistryWithClock(time.Now)
}

// NewRegistryWithClock returns an empty registry reading time from now.
func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{
		sessions: make(map[string]*registryEntry),
		now:      now,
	}
}

// Get returns the session for id, creating it when absent, and marks it as
// recently used.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		e = &registryEntry{session: NewSession(id)}
		r.sessions[id] = e
	}
	e.lastSeen = r.now()
	return e.session
}

// Lookup returns the session for id without creating or touching it.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Reset clears the session for id and reports whether it existed. The session
// stays registered so handles held by in-flight turns remain valid.
func (r *Registry) Reset(id string) bool {
	s, ok := r.Lookup(id)
	if ok {
		s.Reset()
	}
	return ok
}

// Evict removes the sessions idle for longer than ttl and returns how many
// were removed. A non-positive ttl evicts nothing.
func (r *Registry) Evict(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
