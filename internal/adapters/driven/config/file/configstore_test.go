package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, domain.MetricSquaredEuclidean, cfg.Metric)
	assert.Equal(t, "ollama", cfg.Embedder.Provider)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.DataDir = "/tmp/elsewhere"
	cfg.Metric = domain.MetricCosine
	cfg.Embedder.Provider = "openai"
	cfg.Embedder.Model = "text-embedding-3-small"
	cfg.Embedder.APIKey = "sk-test"
	cfg.Embedder.Dimensions = 1536
	require.NoError(t, store.Save(cfg))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPartialFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	partial := "chunk_size = 1024\n\n[embedder]\nmodel = \"all-minilm\"\ndimensions = 384\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(partial), 0600))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.ChunkSize)
	assert.Equal(t, domain.DefaultChunkOverlap, cfg.ChunkOverlap)
	assert.Equal(t, "all-minilm", cfg.Embedder.Model)
	assert.Equal(t, 384, cfg.Embedder.Dimensions)
	assert.Equal(t, "ollama", cfg.Embedder.Provider, "unset fields keep defaults")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	bad := "chunk_size = 100\nchunk_overlap = 100\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(bad), 0600))

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.Metric = "manhattan"
	assert.ErrorIs(t, store.Save(cfg), domain.ErrInvalidInput)
}

func TestSavePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(domain.DefaultConfig()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
