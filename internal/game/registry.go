package game

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Registry holds live sessions keyed by id and drops any session idle for
// longer than the TTL. Every successful lookup refreshes the clock.
type Registry struct {
	ttl      time.Duration
	sessions *gocache.Cache
}

// NewRegistry returns a registry evicting sessions after ttl of inactivity.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		ttl:      ttl,
		sessions: gocache.New(ttl, ttl/2),
	}
}

// Add registers a new session under a fresh id and returns it.
func (r *Registry) Add(specs []QuestionSpec) *Session {
	session := NewSession(uuid.NewString(), specs)
	r.sessions.Set(session.ID(), session, r.ttl)
	return session
}

// Get returns the live session for id, refreshing its idle window.
func (r *Registry) Get(id string) (*Session, error) {
	value, ok := r.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session := value.(*Session)
	r.sessions.Set(id, session, r.ttl)
	return session, nil
}

// Remove drops a session immediately.
func (r *Registry) Remove(id string) {
	r.sessions.Delete(id)
}

// Len reports how many sessions are currently live.
func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}
