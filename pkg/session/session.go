// Package session keeps state shared by a client's successive layouts.
//
// A [Session] owns a text measurement cache, so relayouts of the same
// diagram skip measuring labels already seen, and a cache key scope, so
// cached layouts of one session never leak into another. Sessions expire
// after a TTL that is extended on every use.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess, err := session.New(session.Config{Preset: "interactive"})
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeSessionExpired) {
//	    // start over
//	}
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sruja-ai/sruja-sub008/pkg/cache"
	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/measure"
)

// Default durations and sizes.
const (
	DefaultTTL = 30 * time.Minute
	// DefaultMeasureEntries bounds a session's measurement cache.
	DefaultMeasureEntries = 2048
)

// Config describes a new session.
type Config struct {
	// Preset is the layout preset used when a request names none.
	Preset string `json:"preset,omitempty"`
	// TTL defaults to DefaultTTL.
	TTL time.Duration `json:"-"`
	// Measurer is the backend behind the session cache; nil means
	// measure.NewMeasurer.
	Measurer measure.Measurer `json:"-"`
}

// Session is one client's layout state.
type Session struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	ttl      time.Duration
	mu       sync.Mutex
	measurer *measure.Cached
	layouts  int
}

// New creates a session with a fresh uuid and an empty measurement cache.
func New(cfg Config) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "generate session id")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        id.String(),
		Preset:    cfg.Preset,
		CreatedAt: now,
		ExpiresAt: now.Add(cfg.TTL),
		ttl:       cfg.TTL,
		measurer:  measure.NewCached(cfg.Measurer, measure.NewLRUStore(DefaultMeasureEntries)),
	}, nil
}

// Measurer returns the session's measurement cache.
func (s *Session) Measurer() *measure.Cached { return s.measurer }

// Keyer scopes layout cache keys to the session.
func (s *Session) Keyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, "session:"+s.ID+":")
}

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.ExpiresAt)
}

// Touch records a layout and extends the expiry by the TTL.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts++
	s.ExpiresAt = time.Now().Add(s.ttl)
}

// Info is a snapshot of a session for API responses.
type Info struct {
	ID        string        `json:"id"`
	Preset    string        `json:"preset,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	Layouts   int           `json:"layouts"`
	Measure   measure.Stats `json:"measure"`
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		Preset:    s.Preset,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		Layouts:   s.layouts,
		Measure:   s.measurer.Stats(),
	}
}

// Store holds sessions.
type Store interface {
	// Get returns a live session. Missing sessions fail with
	// SESSION_NOT_FOUND, expired ones with SESSION_EXPIRED.
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup drops expired sessions and returns how many it removed.
	Cleanup(ctx context.Context) (int, error)
}
