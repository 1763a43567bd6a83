package cache

import (
	"context"
	"log/slog"
	"time"

	"exercise-vectors/internal/embeddings"
)

// Embedder serves vectors from the cache and falls back to the wrapped
// embedder on a miss. Cache errors are logged and never fail a request.
type Embedder struct {
	inner embeddings.Embedder
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

func NewEmbedder(inner embeddings.Embedder, c Cache, ttl time.Duration, log *slog.Logger) *Embedder {
	return &Embedder{inner: inner, cache: c, ttl: ttl, log: log}
}

func (e *Embedder) Embed(ctx context.Context, text string) (embeddings.Vector, error) {
	key := VectorKey(e.inner.Model(), text)
	if cached, err := e.cache.GetVector(ctx, key); err != nil {
		e.log.Warn("cache read failed", "err", err)
	} else if len(cached) == e.inner.Dimension() {
		return embeddings.Vector(cached), nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.cache.SetVector(ctx, key, vec, e.ttl); err != nil {
		e.log.Warn("failed to cache vector", "err", err)
	}
	return vec, nil
}

func (e *Embedder) Dimension() int { return e.inner.Dimension() }

func (e *Embedder) Model() string { return e.inner.Model() }

var _ embeddings.Embedder = (*Embedder)(nil)
