// Package cache stores converted tag sheets between runs.
//
// Converting an SVG sheet to PDF or PNG shells out to librsvg, which is the
// slowest step of a run. Conversions are keyed by the SHA-256 of the SVG
// bytes plus the conversion options, so re-running with unchanged inputs
// reuses the previous output.
//
// # Implementations
//
//   - [FileCache]: JSON files under a directory, for CLI use
//   - [NullCache]: never stores anything, for --no-cache and tests
//
// # Keys
//
// Keys are built by a [Keyer]. [ScopedKeyer] prefixes every key, which the CLI
// uses to separate entries written by different tagsheet versions.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a converted sheet stays valid.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts are the conversion options that change the output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a conversion of the SVG with the given hash.
	ArtifactKey(svgHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(svgHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", svgHash, opts)
}
