package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	c.calls++
	return []float32{1}, nil
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.calls++
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}

func (c *countingEmbedder) Dimensions() int              { return 1 }
func (c *countingEmbedder) ModelName() string            { return "counting" }
func (c *countingEmbedder) Ping(_ context.Context) error { return nil }
func (c *countingEmbedder) Close() error                 { return nil }

func TestDelegation(t *testing.T) {
	inner := &countingEmbedder{}
	e := Wrap(inner, Config{RequestsPerSecond: 1000, BurstSize: 10})

	vec, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)

	assert.Equal(t, 2, inner.calls, "a batch counts as one request")
	assert.Equal(t, 1, e.Dimensions())
	assert.Equal(t, "counting", e.ModelName())
	assert.NoError(t, e.Ping(context.Background()))
	assert.NoError(t, e.Close())
}

func TestThrottles(t *testing.T) {
	inner := &countingEmbedder{}
	// 1 token, then 20/s refill: the second call must wait ~50ms.
	e := Wrap(inner, Config{RequestsPerSecond: 20, BurstSize: 1})

	ctx := context.Background()
	start := time.Now()
	_, err := e.Embed(ctx, "x")
	require.NoError(t, err)
	_, err = e.Embed(ctx, "y")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestBackoffRespectsContext(t *testing.T) {
	e := Wrap(&countingEmbedder{}, Config{RequestsPerSecond: 1000, BurstSize: 10})
	e.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := e.Embed(ctx, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDefaultsApplied(t *testing.T) {
	e := Wrap(&countingEmbedder{}, Config{})
	assert.Equal(t, rateLimit(e), DefaultConfig.RequestsPerSecond)
}

func rateLimit(e *Embedder) float64 {
	return float64(e.limiter.Limit())
}
