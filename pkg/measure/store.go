package measure

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Key identifies a memoized measurement.
type Key struct {
	Kind      model.Kind
	Level     model.Level
	MaxWidth  float64
	Multiline bool
	Text      string
}

// Store holds memoized measurements. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(Key) (Text, bool)
	Add(Key, Text)
	Purge()
	Len() int
}

// LRUStore is a bounded Store that evicts the least recently used entry.
type LRUStore struct {
	c *lru.Cache[Key, Text]
}

// DefaultLRUSize is used by NewLRUStore for non-positive sizes.
const DefaultLRUSize = 4096

// NewLRUStore creates a Store holding at most size entries.
func NewLRUStore(size int) *LRUStore {
	if size <= 0 {
		size = DefaultLRUSize
	}
	c, err := lru.New[Key, Text](size)
	if err != nil {
		// only returned for non-positive sizes
		panic(err)
	}
	return &LRUStore{c: c}
}

func (s *LRUStore) Get(k Key) (Text, bool) { return s.c.Get(k) }
func (s *LRUStore) Add(k Key, t Text)      { s.c.Add(k, t) }
func (s *LRUStore) Purge()                 { s.c.Purge() }
func (s *LRUStore) Len() int               { return s.c.Len() }

// MapStore is an unbounded Store. It suits caches scoped to one session,
// which are dropped with the session.
type MapStore struct {
	mu sync.RWMutex
	m  map[Key]Text
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{m: make(map[Key]Text)}
}

func (s *MapStore) Get(k Key) (Text, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.m[k]
	return t, ok
}

func (s *MapStore) Add(k Key, t Text) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[k] = t
}

func (s *MapStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.m)
}

func (s *MapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
