package session

import (
	"context"
	"sync"
	"time"

	"github.com/sruja-ai/sruja-sub008/pkg/errors"
)

// MemoryStore keeps sessions in process memory. Measurement caches cannot
// be shared between processes, so this is the only store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get returns a live session. An expired session is evicted and reported
// as SESSION_EXPIRED.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	if !s.IsExpired() {
		return s, nil
	}
	if cur := m.evictExpired(id); cur != nil {
		return cur, nil
	}
	return nil, errors.New(errors.ErrCodeSessionExpired, "session %q expired", id)
}

// evictExpired deletes id if the stored session is still expired under the
// write lock. A session that was touched or replaced in the meantime is
// kept and returned.
func (m *MemoryStore) evictExpired(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if !cur.IsExpired() {
		return cur
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Set(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Delete removes a session. Unknown ids fail with SESSION_NOT_FOUND.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Cleanup(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func RunCleanup(ctx context.Context, store Store, interval time.Duration, onRemoved func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx)
			if err == nil && n > 0 && onRemoved != nil {
				onRemoved(n)
			}
		}
	}
}

var _ Store = (*MemoryStore)(nil)
