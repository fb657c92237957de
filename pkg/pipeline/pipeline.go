// Package pipeline runs layouts with result caching.
//
// The command line and the HTTP server both lay out documents through a
// [Runner], so cache keys, logging and deduplication behave the same for
// every entry point:
//
//  1. apply the document's preset and view to the options and validate
//  2. derive a key from the document and the effective options
//  3. return the cached layout, or compute it once even when identical
//     requests arrive concurrently, and store it
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, doc, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	diagram.WriteLayout(res.Layout, os.Stdout)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sruja-ai/sruja-sub008/pkg/cache"
	"github.com/sruja-ai/sruja-sub008/pkg/diagram"
	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/layout"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one run.
type Options struct {
	// Layout holds explicit engine options; the document fills what is
	// left empty.
	Layout layout.Options `json:"layout"`
	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// Keyer overrides the runner's keyer, e.g. to scope keys to a session.
	Keyer  cache.Keyer `json:"-"`
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults merges the document into the layout options and
// validates them. It is idempotent.
func (o *Options) ValidateAndSetDefaults(doc *diagram.Document) error {
	if o.validated {
		return nil
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	o.Layout = doc.Options(o.Layout)
	if err := o.Layout.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns the cache key inputs of the effective options.
func (o *Options) LayoutKeyOpts(version string) (cache.LayoutKeyOpts, error) {
	data, err := json.Marshal(o.Layout)
	if err != nil {
		return cache.LayoutKeyOpts{}, errors.Wrap(errors.ErrCodeInternal, err, "encode options")
	}
	return cache.LayoutKeyOpts{Options: string(data), Version: version}, nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a run.
type Result struct {
	Layout diagram.Layout
	// DocumentHash is the content hash of the document.
	DocumentHash string
	Stats        Stats
	CacheInfo    CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
}

// CacheInfo tells where the layout came from.
type CacheInfo struct {
	Key string
	// Hit is set when the layout came from the cache.
	Hit bool
	// Shared is set when a concurrent identical run computed the layout.
	Shared bool
}

// DocumentHash hashes the canonical JSON encoding of doc.
func DocumentHash(doc diagram.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return cache.Hash(data), nil
}
