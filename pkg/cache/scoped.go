package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The HTTP server uses it to keep catalogs that share one Redis database
// apart.
//
// Example usage:
//
//	// Keys for the "biology" catalog
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "catalog:biology:")
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

// TreeKey generates a prefixed key for decoded tree caching.
func (k *ScopedKeyer) TreeKey(sourceHash, root string) string {
	return k.prefix + k.inner.TreeKey(sourceHash, root)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}
