package services

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
)

// Ensure the mock implements the interface.
var _ driven.Embedder = (*mockEmbedder)(nil)

// mockEmbedder is a deterministic test embedder. By default it hashes
// each word of the input into a fixed-size bag-of-words vector, so
// texts sharing vocabulary land near each other and texts with
// disjoint vocabulary land far apart.
type mockEmbedder struct {
	dims    int
	embedFn func(ctx context.Context, text string) ([]float32, error)
	batchFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: 8}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return hashEmbed(text, m.dims), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchFn != nil {
		return m.batchFn(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// hashEmbed buckets each lowercase word into one of dims components.
func hashEmbed(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32())%dims]++
	}
	return vec
}
