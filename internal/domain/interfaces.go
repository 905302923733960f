package domain

import (
	"context"
	"time"
)

// Resolver resolves an ordered list of source roots into a manifest
type Resolver interface {
	// BuildEntries walks the roots and merges them into a manifest
	BuildEntries(ctx context.Context, roots []string) (*Manifest, error)
}

// Cache defines the interface for small persistent key/value caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
