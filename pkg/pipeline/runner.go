package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sidediff/pkg/cache"
	"github.com/matzehuels/sidediff/pkg/diff"
	"github.com/matzehuels/sidediff/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute runs the complete compare → render pipeline with caching.
// Rendering is skipped when no formats are requested.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.OldBytes = len(opts.Old)
	result.Stats.NewBytes = len(opts.New)

	// Stage 1: Compare
	compareStart := time.Now()
	res, key, hit, err := r.CompareWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	result.Comparison = res
	result.DiffKey = key
	result.Stats.CompareTime = time.Since(compareStart)
	result.CacheInfo.CompareHit = hit

	r.Logger.Debug("compared texts",
		"id", result.ID,
		"granularity", res.Granularity,
		"algorithm", res.Algorithm,
		"removals", res.Stats.Removals,
		"additions", res.Stats.Additions,
		"truncated", res.Truncated,
		"cached", hit,
		"duration", result.Stats.CompareTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, key, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"id", result.ID,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// CompareWithCacheInfo compares the inputs with caching. It returns the
// comparison, its cache key and whether it came from the cache.
func (r *Runner) CompareWithCacheInfo(ctx context.Context, opts Options) (diff.Result, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompare(); err != nil {
		return diff.Result{}, "", false, err
	}

	old, new := opts.Inputs()
	key := r.Keyer.DiffKey(cache.HashString(old), cache.HashString(new), opts.DiffKeyOpts())
	hooks := observability.Cache()

	// Cached comparisons are JSON, which cannot carry invalid UTF-8.
	if !utf8.ValidString(old) || !utf8.ValidString(new) {
		r.Logger.Debug("diff cache bypassed", "reason", "input is not valid UTF-8")
		return Compare(ctx, opts), key, false, nil
	}

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached diff.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, cache.KeyTypeDiff)
				return cached, key, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, cache.KeyTypeDiff)
	}

	res := Compare(ctx, opts)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLDiff); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, cache.KeyTypeDiff, len(data))
		}
	}

	return res, key, false, nil
}

// Compare is a convenience wrapper that calls CompareWithCacheInfo and
// discards the cache details.
func (r *Runner) Compare(ctx context.Context, opts Options) (diff.Result, error) {
	res, _, _, err := r.CompareWithCacheInfo(ctx, opts)
	return res, err
}

// RenderWithCacheInfo renders res in every requested format, reusing cached
// artifacts when all of them are present. diffKey is the cache key of res;
// an empty key disables artifact caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res diff.Result, diffKey string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	if diffKey != "" && !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(diffKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, cache.KeyTypeArtifact)
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, cache.KeyTypeArtifact)
	}

	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	if diffKey != "" {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(diffKey, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				hooks.OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
			}
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res diff.Result, diffKey string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, diffKey, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
