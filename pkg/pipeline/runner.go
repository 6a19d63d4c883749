package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/kintree/kintree/pkg/cache"
	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/graph"
	"github.com/kintree/kintree/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeResult        = "result"
	keyTypeLayout        = "layout"
	keyTypeRelationships = "relationships"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different documents and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute validates doc, then computes relationships and layout
// concurrently. The combined result is cached under the document hash and
// the options.
func (r *Runner) Execute(ctx context.Context, doc family.Document, opts Options) (*Result, error) {
	docHash, err := r.prepare(doc, &opts)
	if err != nil {
		return nil, err
	}

	result := &Result{RootID: opts.RootID, DocHash: docHash}
	result.Stats.Persons = len(doc.Persons)
	result.Stats.Relations = len(doc.Relations)

	key := r.Keyer.ResultKey(docHash, opts.ResultKeyOpts())
	if cached, ok := r.lookup(ctx, key, keyTypeResult, opts); ok {
		result.Relationships = cached.Relationships
		result.Positions = graph.ToPoints(cached.Positions)
		result.Levels = cached.Levels
		result.CacheInfo.ResultHit = true
		result.finishStats()
		opts.Logger.Debug("result cache hit", "root", opts.RootID, "hash", docHash[:12])
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		labels, d, err := Infer(gctx, doc, opts)
		if err != nil {
			return fmt.Errorf("relationships: %w", err)
		}
		result.Relationships = labels
		result.Stats.InferTime = d
		return nil
	})
	g.Go(func() error {
		positions, levels, d, err := Arrange(gctx, doc, opts)
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
		result.Positions = positions
		result.Levels = levels
		result.Stats.LayoutTime = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.finishStats()

	opts.Logger.Info("computed family tree",
		"root", opts.RootID,
		"persons", result.Stats.Persons,
		"relations", result.Stats.Relations,
		"reachable", result.Stats.Reachable,
		"infer", result.Stats.InferTime,
		"layout", result.Stats.LayoutTime)

	r.store(ctx, key, keyTypeResult, cache.TTLResult, graph.Result{
		RootID:        opts.RootID,
		Relationships: result.Relationships,
		Positions:     graph.FromPoints(result.Positions),
		Levels:        result.Levels,
	})
	return result, nil
}

// RelationshipsWithCacheInfo labels every reachable person and reports
// whether the labels came from the cache.
func (r *Runner) RelationshipsWithCacheInfo(ctx context.Context, doc family.Document, opts Options) (map[string]string, bool, error) {
	docHash, err := r.prepare(doc, &opts)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.RelationshipsKey(docHash, opts.RelationshipsKeyOpts())
	if cached, ok := r.lookup(ctx, key, keyTypeRelationships, opts); ok {
		return cached.Relationships, true, nil
	}

	labels, d, err := Infer(ctx, doc, opts)
	if err != nil {
		return nil, false, fmt.Errorf("relationships: %w", err)
	}
	opts.Logger.Info("inferred relationships", "root", opts.RootID, "labels", len(labels), "duration", d)

	r.store(ctx, key, keyTypeRelationships, cache.TTLRelationships, graph.Result{
		RootID:        opts.RootID,
		Relationships: labels,
	})
	return labels, false, nil
}

// Relationships is a convenience wrapper that discards the cache hit info.
func (r *Runner) Relationships(ctx context.Context, doc family.Document, opts Options) (map[string]string, error) {
	labels, _, err := r.RelationshipsWithCacheInfo(ctx, doc, opts)
	return labels, err
}

// LayoutWithCacheInfo positions every reachable person and reports whether
// the positions came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc family.Document, opts Options) (map[string]family.Point, bool, error) {
	docHash, err := r.prepare(doc, &opts)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())
	if cached, ok := r.lookup(ctx, key, keyTypeLayout, opts); ok {
		return graph.ToPoints(cached.Positions), true, nil
	}

	positions, levels, d, err := Arrange(ctx, doc, opts)
	if err != nil {
		return nil, false, fmt.Errorf("layout: %w", err)
	}
	opts.Logger.Info("computed layout", "root", opts.RootID, "positions", len(positions), "duration", d)

	r.store(ctx, key, keyTypeLayout, cache.TTLLayout, graph.Result{
		RootID:    opts.RootID,
		Positions: graph.FromPoints(positions),
		Levels:    levels,
	})
	return positions, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, doc family.Document, opts Options) (map[string]family.Point, error) {
	positions, _, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	return positions, err
}

// Apply lays doc out and writes the positions back into its persons.
// Unreachable persons keep their coordinates.
func (r *Runner) Apply(ctx context.Context, doc family.Document, opts Options) (family.Document, error) {
	positions, err := r.Layout(ctx, doc, opts)
	if err != nil {
		return family.Document{}, err
	}
	return doc.Arrange(positions), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// prepare validates doc and opts and returns the document hash.
func (r *Runner) prepare(doc family.Document, opts *Options) (string, error) {
	r.applyLogger(opts)
	if err := doc.Validate(); err != nil {
		return "", kerrors.Wrap(kerrors.ErrCodeInvalidDocument, err, "invalid document")
	}
	if err := opts.ValidateAndSetDefaults(doc); err != nil {
		return "", err
	}
	return HashDocument(doc)
}

// HashDocument returns the content hash of the canonical JSON encoding.
func HashDocument(doc family.Document) (string, error) {
	data, err := graph.Marshal(doc, graph.FormatJSON)
	if err != nil {
		return "", kerrors.Wrap(kerrors.ErrCodeInternal, err, "serialize document for cache key")
	}
	return cache.Hash(data), nil
}

// lookup returns a cached result unless opts.Refresh is set. Backend and
// decoding failures count as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, opts Options) (graph.Result, bool) {
	hooks := observability.Cache()
	if opts.Refresh {
		hooks.OnCacheMiss(ctx, keyType)
		return graph.Result{}, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return graph.Result{}, false
	}
	cached, err := graph.UnmarshalResult(data)
	if err != nil {
		hooks.OnCacheMiss(ctx, keyType)
		return graph.Result{}, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return cached, true
}

// store writes a result; failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key, keyType string, ttl time.Duration, res graph.Result) {
	data, err := graph.MarshalResult(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (res *Result) finishStats() {
	res.Stats.Reachable = len(res.Positions)
	res.Stats.Unreachable = res.Stats.Persons - res.Stats.Reachable
	res.Stats.Generations = generations(res.Levels)
}
