package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ttl  time.Duration
		hit  bool
	}{
		{"no expiry", 0, true},
		{"future expiry", time.Hour, true},
		{"negative ttl never expires", -time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "layout:" + tt.name
			if err := c.Set(ctx, key, []byte(tt.name), tt.ttl); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			data, hit, err := c.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if hit != tt.hit || string(data) != tt.name {
				t.Errorf("Get = %q, %v; want %q, %v", data, hit, tt.name, tt.hit)
			}
		})
	}

	if err := c.Delete(ctx, "layout:no expiry"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "layout:no expiry"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "never stored"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpired(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// write an entry whose expiry has passed
	path := c.path("old")
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte(`{"data":"eA==","expires_at":"2000-01-01T00:00:00Z"}`), 0644)

	if _, hit, err := c.Get(ctx, "old"); hit || err != nil {
		t.Errorf("Get = %v, %v; want expired miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte("{not json"), 0644)

	if _, hit, err := c.Get(context.Background(), "bad"); hit || err != nil {
		t.Errorf("Get = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(ctx, k, []byte(k), 0)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q", c.Dir())
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "sruja-layout") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

func TestHash(t *testing.T) {
	h1, h2 := Hash([]byte("hello")), Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := k.LayoutKey("doc", LayoutKeyOpts{Options: "a", Version: "v1"})

	if !strings.HasPrefix(base, "layout:") {
		t.Errorf("LayoutKey = %q, want layout: prefix", base)
	}
	if base != k.LayoutKey("doc", LayoutKeyOpts{Options: "a", Version: "v1"}) {
		t.Error("LayoutKey should be deterministic")
	}
	for _, other := range []string{
		k.LayoutKey("doc2", LayoutKeyOpts{Options: "a", Version: "v1"}),
		k.LayoutKey("doc", LayoutKeyOpts{Options: "b", Version: "v1"}),
		k.LayoutKey("doc", LayoutKeyOpts{Options: "a", Version: "v2"}),
	} {
		if other == base {
			t.Errorf("key collision: %s", other)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "session:123:")
	key := scoped.LayoutKey("doc", LayoutKeyOpts{})
	want := "session:123:" + NewDefaultKeyer().LayoutKey("doc", LayoutKeyOpts{})
	if key != want {
		t.Errorf("LayoutKey = %q, want %q", key, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("wrapped error lost identity: %v", err)
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message changed: %s", err)
	}
	if IsRetryable(ErrNetwork) {
		t.Error("plain error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { RetryDelay = d }(RetryDelay)
	RetryDelay = time.Millisecond
	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 1, nil},
		{"permanent error", 5, permanent, 1, permanent},
		{"recovers", 1, Retryable(ErrNetwork), 2, nil},
		{"gives up", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{}); err == nil {
		t.Error("expected error for empty address")
	}
}
