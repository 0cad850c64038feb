// Package ratelimit wraps an Embedder with a token-bucket rate limit,
// keeping bulk imports from overwhelming a local model server or
// burning through a hosted provider's quota.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultConfig is a conservative default suitable for hosted APIs.
var DefaultConfig = Config{RequestsPerSecond: 5.0, BurstSize: 10}

// Embedder delegates to an inner Embedder after acquiring a token.
// A backoff window set by RecordRateLimitError is respected before
// the token bucket is consulted.
type Embedder struct {
	inner   driven.Embedder
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// Wrap wraps inner with the given limits. Non-positive values fall
// back to DefaultConfig.
func Wrap(inner driven.Embedder, cfg Config) *Embedder {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultConfig.BurstSize
	}
	return &Embedder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Embed waits for a token, then delegates.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.Embed(ctx, text)
}

// EmbedBatch waits for a single token per request, then delegates.
// A batch counts as one request regardless of size.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the inner embedder's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// ModelName returns the inner embedder's model name.
func (e *Embedder) ModelName() string {
	return e.inner.ModelName()
}

// Ping delegates without consuming a token.
func (e *Embedder) Ping(ctx context.Context) error {
	return e.inner.Ping(ctx)
}

// Close closes the inner embedder.
func (e *Embedder) Close() error {
	return e.inner.Close()
}

// RecordRateLimitError sets a backoff period. Call this when the
// provider returns a 429 response.
func (e *Embedder) RecordRateLimitError(retryAfterSeconds int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if retryAfterSeconds <= 0 {
		// Default backoff: 60 seconds
		retryAfterSeconds = 60
	}
	e.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// wait blocks for any active backoff window, then for the token bucket.
func (e *Embedder) wait(ctx context.Context) error {
	e.mu.Lock()
	retryAt := e.retryAt
	e.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}
	return e.limiter.Wait(ctx)
}
