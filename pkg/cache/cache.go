// Package cache stores serialized layouts between runs.
//
// A [Cache] maps string keys to opaque bytes with an optional time to live.
// Three backends are provided:
//
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] keeps one JSON file per entry, for the command line
//   - [RedisCache] shares entries between server instances
//
// Keys come from a [Keyer] so that every caller derives them the same way.
// A [ScopedKeyer] prefixes keys, which keeps sessions apart.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is the lifetime of cached layouts.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultDir returns the file cache directory: $XDG_CACHE_HOME/sruja-layout,
// falling back to the user cache directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "sruja-layout"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sruja-layout"), nil
}

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of a layout of the document with the given hash.
	LayoutKey(documentHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that change a layout.
type LayoutKeyOpts struct {
	// Options is a canonical encoding of the effective layout options.
	Options string
	// Version invalidates entries written by other engine versions.
	Version string
}

// DefaultKeyer produces "layout:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the document hash together with opts.
func (DefaultKeyer) LayoutKey(documentHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", documentHash, opts)
}
