package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sruja-ai/sruja-sub008/pkg/cache"
	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/measure"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

func TestNew(t *testing.T) {
	a, err := New(Config{Preset: "compact", Measurer: measure.Heuristic{}})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := New(Config{})
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids = %q, %q; want distinct", a.ID, b.ID)
	}
	if got := a.ExpiresAt.Sub(a.CreatedAt); got != DefaultTTL {
		t.Errorf("ttl = %v, want %v", got, DefaultTTL)
	}
	if a.Measurer() == b.Measurer() {
		t.Error("sessions share a measurement cache")
	}
	if !strings.HasPrefix(a.Keyer().LayoutKey("doc", cacheOpts), "session:"+a.ID+":") {
		t.Error("layout keys not scoped to the session")
	}
}

func TestTouchExtendsExpiry(t *testing.T) {
	s, _ := New(Config{TTL: time.Hour})
	s.ExpiresAt = time.Now().Add(time.Second)
	s.Touch()
	if time.Until(s.ExpiresAt) < 59*time.Minute {
		t.Errorf("expiry not extended: %v", s.ExpiresAt)
	}
	if got := s.Info().Layouts; got != 1 {
		t.Errorf("Layouts = %d, want 1", got)
	}
}

func TestInfoReportsMeasureStats(t *testing.T) {
	s, _ := New(Config{Measurer: measure.Heuristic{}})
	m := s.Measurer()
	m.Measure("Payment Service", model.KindContainer, model.L2, 200)
	m.Measure("Payment Service", model.KindContainer, model.L2, 200)

	st := s.Info().Measure
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", st)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	live, _ := New(Config{})
	expired, _ := New(Config{})
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	store.Set(ctx, live)
	store.Set(ctx, expired)

	tests := []struct {
		name string
		id   string
		code errors.Code
	}{
		{"live", live.ID, ""},
		{"expired", expired.ID, errors.ErrCodeSessionExpired},
		{"unknown", "nope", errors.ErrCodeSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Get(ctx, tt.id)
			if tt.code == "" {
				if err != nil || got != live {
					t.Fatalf("Get = %v, %v", got, err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	if store.Len() != 1 {
		t.Errorf("expired session not evicted on Get: len = %d", store.Len())
	}
	if err := store.Delete(ctx, live.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, live.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestEvictExpiredKeepsRevivedSession(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		revive func(store *MemoryStore, s *Session) *Session
	}{
		{"touched", func(_ *MemoryStore, s *Session) *Session {
			s.Touch()
			return s
		}},
		{"replaced", func(store *MemoryStore, s *Session) *Session {
			fresh, _ := New(Config{})
			fresh.ID = s.ID
			store.Set(ctx, fresh)
			return fresh
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			s, _ := New(Config{})
			s.ExpiresAt = time.Now().Add(-time.Minute)
			store.Set(ctx, s)

			// revived between Get's read and its eviction
			want := tt.revive(store, s)
			if got := store.evictExpired(s.ID); got != want {
				t.Errorf("evictExpired = %v, want the revived session", got)
			}
			if got, err := store.Get(ctx, s.ID); err != nil || got != want {
				t.Errorf("Get = %v, %v", got, err)
			}
		})
	}

	store := NewMemoryStore()
	s, _ := New(Config{})
	s.ExpiresAt = time.Now().Add(-time.Minute)
	store.Set(ctx, s)
	if got := store.evictExpired(s.ID); got != nil || store.Len() != 0 {
		t.Errorf("evictExpired = %v, len = %d; want eviction", got, store.Len())
	}
	if got := store.evictExpired("nope"); got != nil {
		t.Errorf("evictExpired(unknown) = %v", got)
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 0; i < 3; i++ {
		s, _ := New(Config{})
		if i > 0 {
			s.ExpiresAt = time.Now().Add(-time.Second)
		}
		store.Set(ctx, s)
	}

	n, err := store.Cleanup(ctx)
	if err != nil || n != 2 {
		t.Errorf("Cleanup = %d, %v; want 2", n, err)
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
}

func TestRunCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore()
	s, _ := New(Config{})
	s.ExpiresAt = time.Now().Add(-time.Second)
	store.Set(ctx, s)

	removed := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		RunCleanup(ctx, store, time.Millisecond, func(n int) { removed <- n })
		close(done)
	}()

	select {
	case n := <-removed:
		if n != 1 {
			t.Errorf("removed = %d, want 1", n)
		}
	case <-time.After(time.Second):
		t.Fatal("cleanup never ran")
	}
	cancel()
	<-done
}

var cacheOpts = cache.LayoutKeyOpts{Options: "x"}
