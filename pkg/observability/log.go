package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes tree and cache events to a logger at debug level. Failed
// loads and renders are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("loading tree", "source", source)
}

func (h LogHooks) OnLoadComplete(_ context.Context, source string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("load failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("tree loaded", "source", source, "nodes", nodeCount, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("rendering", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.Logger.Debug("rendered", "formats", formats, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ TreeHooks  = LogHooks{}
	_ CacheHooks = LogHooks{}
)

// Fanout forwards tree and cache events to several hook sets in order.
type Fanout []interface {
	TreeHooks
	CacheHooks
}

func (f Fanout) OnLoadStart(ctx context.Context, source string) {
	for _, h := range f {
		h.OnLoadStart(ctx, source)
	}
}

func (f Fanout) OnLoadComplete(ctx context.Context, source string, n int, d time.Duration, err error) {
	for _, h := range f {
		h.OnLoadComplete(ctx, source, n, d, err)
	}
}

func (f Fanout) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range f {
		h.OnRenderStart(ctx, formats)
	}
}

func (f Fanout) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range f {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

func (f Fanout) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheHit(ctx, keyType)
	}
}

func (f Fanout) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (f Fanout) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range f {
		h.OnCacheSet(ctx, keyType, size)
	}
}
