package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Embedder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewEmbedder(Config{BaseURL: srv.URL, Dimensions: 3})
}

func TestEmbed(t *testing.T) {
	var gotReq embedRequest
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float32{{0.1, 0.2, 0.3}},
		})
	})

	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, "hello", gotReq.Input)
}

func TestEmbedBatch(t *testing.T) {
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		inputs, ok := req.Input.([]any)
		require.True(t, ok, "batch input is an array")
		out := make([][]float32, len(inputs))
		for i := range inputs {
			out[i] = []float32{float32(i), 0, 0}
		}
		json.NewEncoder(w).Encode(embedResponse{Embeddings: out})
	})

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0, 0}, vecs[1])
}

func TestEmbedBatchEmpty(t *testing.T) {
	e := NewEmbedder(Config{})
	vecs, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedServerError(t *testing.T) {
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := e.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestEmbedCountMismatch(t *testing.T) {
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float32{{1}, {2}},
		})
	})

	_, err := e.Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, e.Ping(context.Background()))
}

func TestPingDown(t *testing.T) {
	srv, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()
	assert.Error(t, e.Ping(context.Background()))
}

func TestDefaults(t *testing.T) {
	e := NewEmbedder(Config{})
	assert.Equal(t, DefaultModel, e.ModelName())
	assert.Equal(t, DefaultDimensions, e.Dimensions())
	assert.NoError(t, e.Close())
}
