// Package cache stores rendered artifacts and decoded trees between runs.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, sharded by key hash.
//     The CLI default, rooted at $XDG_CACHE_HOME/groot.
//   - [RedisCache]: a shared Redis instance for the HTTP server.
//   - [NullCache]: stores nothing; used with --no-cache.
//
// # Keys
//
// Keys are built by a [Keyer] from content hashes, never from file names,
// so an edited tree file can never be served a stale diagram:
//
//	k := cache.NewDefaultKeyer()
//	treeKey := k.TreeKey(cache.Hash(src), "mammal")
//	artKey := k.ArtifactKey(treeHash, cache.ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] prefixes every key, for example to keep several catalogs
// apart in one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default time-to-live per entry kind.
const (
	TTLTree     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey identifies a decoded tree by the hash of its source document
	// and the subtree root ("" for the whole tree).
	TreeKey(sourceHash, root string) string

	// ArtifactKey identifies a rendered output of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes rendered bytes.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Space      int    `json:"space,omitempty"`
	AtomMarker string `json:"atom_marker,omitempty"`
	ShowLevel  bool   `json:"show_level,omitempty"`
	Detailed   bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey implements [Keyer].
func (DefaultKeyer) TreeKey(sourceHash, root string) string {
	return hashKey("tree", sourceHash, root)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
