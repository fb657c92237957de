package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// logger. Cache hits and misses are frequent, so they are only logged for
// the "layout" key type.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ LayoutHooks = LogHooks{}
	_ CacheHooks  = LogHooks{}
	_ HTTPHooks   = LogHooks{}
)

// Install registers h for every hook category.
func (h LogHooks) Install() {
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnLayoutStart(_ context.Context, strategy string, nodeCount int) {
	h.Logger.Debug("layout start", "strategy", strategy, "nodes", nodeCount)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, strategy string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("layout failed", "strategy", strategy, "nodes", nodeCount, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("layout done", "strategy", strategy, "nodes", nodeCount, "duration", d)
}

func (h LogHooks) OnCycle(_ context.Context, backEdges int) {
	h.Logger.Debug("cycle truncated", "back_edges", backEdges)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	if keyType == "layout" {
		h.Logger.Debug("cache hit", "type", keyType)
	}
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	if keyType == "layout" {
		h.Logger.Debug("cache miss", "type", keyType)
	}
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	if keyType == "layout" {
		h.Logger.Debug("cache set", "type", keyType, "bytes", size)
	}
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h LogHooks) OnRateLimited(_ context.Context, method, route string) {
	h.Logger.Warn("rate limited", "method", method, "route", route)
}
