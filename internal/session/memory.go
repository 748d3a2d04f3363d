package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/healthassist-server/internal/domain"
)

var _ domain.SessionStore = (*MemoryStore)(nil)

// MemoryStore keeps sessions in a bounded in-process LRU. Sessions are lost
// on restart and the least recently used ones are evicted at capacity.
type MemoryStore struct {
	cache *expirable.LRU[string, *domain.Session]
	now   func() time.Time
}

// NewMemoryStore creates a store holding at most maxEntries sessions, none
// older than ttl.
func NewMemoryStore(maxEntries int, ttl time.Duration) (*MemoryStore, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("max entries must be positive, got %d", maxEntries)
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, *domain.Session](maxEntries, nil, ttl),
		now:   time.Now,
	}, nil
}

// Create stores a copy of the session.
func (m *MemoryStore) Create(_ context.Context, session *domain.Session) error {
	stored := *session
	m.cache.Add(session.ID, &stored)
	return nil
}

// Get returns a copy of a live session.
func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	stored, ok := m.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if stored.Expired(m.now()) {
		m.cache.Remove(id)
		return nil, domain.ErrSessionNotFound
	}
	session := *stored
	return &session, nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len reports the number of sessions held.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}
