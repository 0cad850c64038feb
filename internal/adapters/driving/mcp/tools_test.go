package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

func newTestHarness(t *testing.T, retriever *mockRetriever) *Server {
	t.Helper()
	srv, err := NewServer(&Ports{Retriever: retriever, Ingestor: &mockIngestor{}})
	require.NoError(t, err)
	return srv
}

func TestHandleSearch(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	retriever := &mockRetriever{
		results: []domain.SearchResult{{
			Thread: domain.Thread{
				ID:      "thr-1",
				Type:    domain.ItemTypeEmail,
				Snippet: "Trip planning",
			},
			Chunk:      domain.ThreadChunk{Content: "flights and hotels"},
			Items:      []domain.Item{{ID: "e1", Title: "Trip planning", Snippet: "flights", Date: when}},
			Distance:   0.5,
			Similarity: 1.0 / 1.5,
		}},
	}
	srv := newTestHarness(t, retriever)

	_, out, err := srv.handleSearch(context.Background(), nil, SearchInput{
		Query: "vacation plans",
		Limit: 5,
		Types: []string{"email"},
	})
	require.NoError(t, err)

	assert.Equal(t, "vacation plans", retriever.lastQuery)
	assert.Equal(t, 5, retriever.lastOpts.Limit)
	assert.Equal(t, []domain.ItemType{domain.ItemTypeEmail}, retriever.lastOpts.Types)

	require.Equal(t, 1, out.Count)
	r := out.Results[0]
	assert.Equal(t, "thr-1", r.ThreadID)
	assert.Equal(t, "email", r.Type)
	assert.Equal(t, "Trip planning", r.Snippet)
	assert.Equal(t, "flights and hotels", r.Chunk)
	assert.InDelta(t, 1.0/1.5, r.Similarity, 1e-12)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "2026-03-14T09:00:00Z", r.Items[0].Date)
}

func TestHandleSearchRejectsUnknownType(t *testing.T) {
	srv := newTestHarness(t, &mockRetriever{})

	_, _, err := srv.handleSearch(context.Background(), nil, SearchInput{
		Query: "anything",
		Types: []string{"spreadsheet"},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestHandleSearchPropagatesError(t *testing.T) {
	wantErr := errors.New("embedder down")
	srv := newTestHarness(t, &mockRetriever{err: wantErr})

	_, _, err := srv.handleSearch(context.Background(), nil, SearchInput{Query: "q"})
	assert.ErrorIs(t, err, wantErr)
}

func TestHandleFullThread(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	retriever := &mockRetriever{
		items: []domain.Item{
			{ID: "m1", Content: "first message", Date: when},
			{ID: "m2", Content: "second message", Date: when.Add(time.Minute)},
		},
	}
	srv := newTestHarness(t, retriever)

	_, out, err := srv.handleFullThread(context.Background(), nil, ThreadInput{
		ThreadID:  "thr-1",
		ItemCount: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "thr-1", retriever.lastID)
	assert.Equal(t, 2, retriever.lastCount)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "first message", out.Items[0].Content)
}

func TestHandleFullThreadRequiresID(t *testing.T) {
	srv := newTestHarness(t, &mockRetriever{})

	_, _, err := srv.handleFullThread(context.Background(), nil, ThreadInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
