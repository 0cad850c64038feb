package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
	"github.com/MordecaiM24/recall-sub000/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// RetrievalService answers semantic queries: embed the query, rank
// threads by vector distance, and hydrate each hit into a full result.
type RetrievalService struct {
	store    driven.IndexStore
	embedder driven.Embedder
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(store driven.IndexStore, embedder driven.Embedder) *RetrievalService {
	return &RetrievalService{
		store:    store,
		embedder: embedder,
	}
}

// Search runs a semantic query and returns hydrated results ordered by
// ascending distance. A blank query returns an empty result set.
func (s *RetrievalService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	logger.Section("Search")
	logger.Debug("Query: %q (limit %d, types %v)", query, limit, opts.Types)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.SearchVectors(ctx, embedding, limit, opts.Types)
	if err != nil {
		return nil, fmt.Errorf("search vectors: %w", err)
	}
	logger.Debug("Vector search returned %d hits", len(hits))

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		result, err := s.hydrate(ctx, hit)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Thread %s vanished during hydration, skipping", hit.ThreadID)
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	logger.Info("Search complete: %d results", len(results))
	return results, nil
}

// FullThread returns a thread's items in stored order. A non-positive
// itemCount returns every item; an unknown thread returns an empty
// slice.
func (s *RetrievalService) FullThread(ctx context.Context, threadID string, itemCount int) ([]domain.Item, error) {
	thread, err := s.store.GetThread(ctx, threadID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}

	ids := thread.ItemIDs
	if itemCount > 0 && itemCount < len(ids) {
		ids = ids[:itemCount]
	}

	items, err := s.store.GetItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// hydrate loads the thread, items and representative chunk for a hit.
func (s *RetrievalService) hydrate(ctx context.Context, hit domain.VectorHit) (domain.SearchResult, error) {
	thread, err := s.store.GetThread(ctx, hit.ThreadID)
	if err != nil {
		return domain.SearchResult{}, err
	}

	items, err := s.store.GetItems(ctx, thread.ItemIDs)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("get items: %w", err)
	}

	chunks, err := s.store.GetChunks(ctx, hit.ThreadID)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("get chunks: %w", err)
	}

	var chunk domain.ThreadChunk
	for _, c := range chunks {
		if c.Representative() {
			chunk = c
			break
		}
	}

	return domain.SearchResult{
		Chunk:      chunk,
		Thread:     *thread,
		Items:      items,
		Distance:   hit.Distance,
		Similarity: 1.0 / (1.0 + hit.Distance),
	}, nil
}
