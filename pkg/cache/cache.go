// Package cache stores rendered artifacts keyed by document content.
//
// Exporting is cheap, but the HTTP API and CLI see the same documents over
// and over, and SVG rendering through Graphviz is not. The [Cache] interface
// hides where artifacts live:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [MongoCache]: document-store backed cache with a TTL index
//
// [Open] picks a backend from a URL:
//
//	c, err := cache.Open(ctx, "redis://localhost:6379/0")
//	c, err := cache.Open(ctx, "mongodb://localhost:27017/cdspice")
//	c, err := cache.Open(ctx, "file:///home/me/.cache/cdspice")
//	c, err := cache.Open(ctx, "") // NullCache
//
// Keys come from a [Keyer] so that every artifact option that changes the
// bytes also changes the key.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// ArtifactKeyOpts lists the export options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Policy   string `json:"policy,omitempty"`
	Newline  string `json:"newline,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of an artifact rendered from the document
	// with content hash docHash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the document hash together with opts.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
