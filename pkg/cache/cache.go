// Package cache provides pluggable storage for comparison results and
// rendered artifacts.
//
// A comparison is a pure function of its inputs and options, so its result
// can be stored under a key derived from both and reused. Caching is purely
// an optimization: every backend may lose entries at any time, and a failed
// lookup is treated as a miss.
//
// # Backends
//
//   - [NullCache]: stores nothing; the default when caching is disabled
//   - [FileCache]: JSON files under a directory, for the CLI
//   - [RedisCache]: a Redis server, for the HTTP API
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes input digests and
// options; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok=false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs for cached values.
const (
	TTLDiff     = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeDiff     = "diff"
	KeyTypeArtifact = "artifact"
)

// DiffKeyOpts holds the options that influence a comparison.
type DiffKeyOpts struct {
	Granularity string `json:"granularity"`
	Algorithm   string `json:"algorithm"`
	Window      int    `json:"window,omitempty"`
	MaxTokens   int    `json:"max_tokens,omitempty"`
}

// ArtifactKeyOpts holds the options that influence a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Color  bool   `json:"color,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DiffKey returns the key for comparing the inputs with the given
	// content hashes.
	DiffKey(oldHash, newHash string, opts DiffKeyOpts) string

	// ArtifactKey returns the key for a rendering of the comparison stored
	// under diffKey.
	ArtifactKey(diffKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "diff:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiffKey implements Keyer. Swapping old and new yields a different key.
func (DefaultKeyer) DiffKey(oldHash, newHash string, opts DiffKeyOpts) string {
	return hashKey(KeyTypeDiff, oldHash, newHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(diffKey string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, diffKey, opts)
}
