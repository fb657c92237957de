package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/sruja-ai/sruja-sub008/pkg/cache"
	"github.com/sruja-ai/sruja-sub008/pkg/diagram"
	"github.com/sruja-ai/sruja-sub008/pkg/layout"
	"github.com/sruja-ai/sruja-sub008/pkg/observability"
)

// Runner executes layouts through a cache.
//
// The Runner keeps no per-run state besides the in-flight table, so one
// Runner may serve many goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of stored layouts, cache.DefaultTTL if zero.
	TTL time.Duration
	// Version is part of every key so that upgrades never serve stale
	// layouts.
	Version string

	group singleflight.Group
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means the default keyer and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: cache.DefaultTTL}
}

// computed is what a singleflight call hands to every waiter.
type computed struct {
	layout diagram.Layout
	data   []byte
	nodes  int
}

// Execute lays out doc, consulting the cache first unless opts.Refresh is
// set. Cache failures are logged and never fail the run.
func (r *Runner) Execute(ctx context.Context, doc diagram.Document, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(&doc); err != nil {
		return nil, err
	}
	logger := opts.Logger
	keyer := opts.Keyer
	if keyer == nil {
		keyer = r.Keyer
	}

	docHash, err := DocumentHash(doc)
	if err != nil {
		return nil, err
	}
	keyOpts, err := opts.LayoutKeyOpts(r.Version)
	if err != nil {
		return nil, err
	}
	key := keyer.LayoutKey(docHash, keyOpts)
	res := &Result{DocumentHash: docHash, CacheInfo: CacheInfo{Key: key}}
	res.Stats.EdgeCount = len(doc.Relationships)

	start := time.Now()
	if !opts.Refresh {
		if l, ok := r.lookup(ctx, key, logger); ok {
			res.Layout = l
			res.Stats.NodeCount = len(l.Nodes)
			res.Stats.LayoutTime = time.Since(start)
			res.CacheInfo.Hit = true
			logger.Debug("layout from cache", "key", key[len(key)-12:])
			return res, nil
		}
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		return r.compute(ctx, doc, opts.Layout, key, logger)
	})
	if err != nil {
		return nil, err
	}
	c := v.(*computed)
	// waiters get their own copy so callers may modify the layout
	l, err := diagram.UnmarshalLayout(c.data)
	if err != nil {
		l = c.layout
	}
	res.Layout = l
	res.Stats.NodeCount = c.nodes
	res.Stats.LayoutTime = time.Since(start)
	res.CacheInfo.Shared = shared

	logger.Info("computed layout",
		"nodes", c.nodes,
		"edges", res.Stats.EdgeCount,
		"width", l.Width,
		"height", l.Height,
		"duration", res.Stats.LayoutTime)
	return res, nil
}

// LayoutWithCacheInfo runs Execute and returns the layout and whether it
// came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc diagram.Document, opts Options) (diagram.Layout, bool, error) {
	res, err := r.Execute(ctx, doc, opts)
	if err != nil {
		return diagram.Layout{}, false, err
	}
	return res.Layout, res.CacheInfo.Hit, nil
}

// Layout is LayoutWithCacheInfo without the cache information.
func (r *Runner) Layout(ctx context.Context, doc diagram.Document, opts Options) (diagram.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	return l, err
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (diagram.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", "err", err)
		return diagram.Layout{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return diagram.Layout{}, false
	}
	l, err := diagram.UnmarshalLayout(data)
	if err != nil {
		// stale format; recompute and overwrite
		logger.Debug("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return diagram.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return l, true
}

func (r *Runner) compute(ctx context.Context, doc diagram.Document, opts layout.Options, key string, logger *log.Logger) (*computed, error) {
	engine, err := layout.New(opts, logger)
	if err != nil {
		return nil, err
	}
	res, err := engine.Layout(ctx, doc.Graph())
	if err != nil {
		return nil, err
	}
	l := diagram.FromResult(res)
	data, err := diagram.MarshalLayout(l)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache store failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return &computed{layout: l, data: data, nodes: len(res.Order)}, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
