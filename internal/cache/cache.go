package cache

import (
	"context"
	"time"
)

// Cache stores computed vectors keyed by model and text.
type Cache interface {
	// GetVector retrieves a cached vector by key
	// Returns nil if not found
	GetVector(ctx context.Context, key string) ([]float32, error)

	// SetVector stores a vector with TTL
	SetVector(ctx context.Context, key string, vec []float32, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}
