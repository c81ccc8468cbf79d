package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis or MongoDB backend without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "sidediff:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DiffKey generates a prefixed key for comparison results.
func (k *ScopedKeyer) DiffKey(oldHash, newHash string, opts DiffKeyOpts) string {
	return k.prefix + k.inner.DiffKey(oldHash, newHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(diffKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(diffKey, opts)
}
