package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/groot/pkg/cache"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/observability"
	"github.com/matzehuels/groot/pkg/tree"
)

// Cache key types reported to observability hooks.
const (
	keyTypeTree     = "tree"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetimes (cache.TTLTree and
	// cache.TTLArtifact) when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	t, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = t
	result.TreeHash = TreeHash(t)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = t.Len()
	result.Stats.AtomCount = len(t.Atoms())
	result.Stats.Depth = t.Depth()
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded tree",
		"name", t.Name(),
		"nodes", result.Stats.NodeCount,
		"atoms", result.Stats.AtomCount,
		"levels", result.Stats.Depth,
		"duration", result.Stats.LoadTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the tree with caching and returns cache hit info.
// Decoded trees are cached by source hash and subtree root, as their
// canonical JSON mapping.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (t *tree.Tree, hit bool, err error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	source := opts.Path
	if source == "" {
		source = "<input>"
	}
	hooks := observability.Tree()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()
	defer func() {
		n := 0
		if t != nil {
			n = t.Len()
		}
		hooks.OnLoadComplete(ctx, source, n, time.Since(start), err)
	}()

	src, err := readSource(opts)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.TreeKey(sourceHash(src, opts.SourceFormat), opts.Root)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
			if m, err := treeio.Read(bytes.NewReader(data), treeio.FormatJSON); err == nil {
				if t, err := tree.FromMapping(m); err == nil {
					observability.Cache().OnCacheHit(ctx, keyTypeTree)
					return t.WithName(treeName(opts)), true, nil
				}
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeTree)
	}

	m, err := treeio.Read(bytes.NewReader(src), opts.SourceFormat)
	if err != nil {
		return nil, false, wrapSource(err, opts)
	}
	t, err = buildTree(m, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := treeio.Marshal(t.ToMapping(), treeio.FormatJSON); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLTree)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeTree, len(data))
		}
	}

	return t, false, nil
}

// treeName reproduces the naming rule of buildTree for trees restored from
// cache, which lose the name they were stored under. Subtrees are named
// after their root.
func treeName(opts Options) string {
	if opts.Root != "" {
		return ""
	}
	return opts.Name
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*tree.Tree, error) {
	t, _, err := r.LoadWithCacheInfo(ctx, opts)
	return t, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. Each format is cached separately, keyed by the tree hash and the
// options that affect that format.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *tree.Tree, opts Options) (artifacts map[string][]byte, allHit bool, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Tree()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	treeHash := TreeHash(t)
	artifacts = make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, t, renderOpts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t *tree.Tree, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

