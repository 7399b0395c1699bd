// Package cache provides pluggable byte caches for rendered diagram
// artifacts.
//
// Parsing is cheap and deterministic, so parse results are never
// cached; rendering shells out to Graphviz and librsvg and is worth
// memoizing. Keys are derived from a hash of the diagram source plus
// the render parameters, so a changed diagram never serves a stale
// image.
//
// Three backends are provided: [FileCache] for CLI usage, [RedisCache]
// for the server, and [NullCache] to disable caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys with an optional
// TTL. A zero TTL means the entry never expires.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKey builds the cache key for a rendered artifact. The source
// text is hashed so the key length is independent of diagram size.
func RenderKey(source, format string, scale float64) string {
	return hashKey("render", source, format, scale)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 to prevent collisions.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
