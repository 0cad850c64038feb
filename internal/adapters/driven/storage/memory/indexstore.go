// Package memory provides an in-memory IndexStore for tests and
// ephemeral runs. It mirrors the sqlite adapter's semantics, including
// the explicit chunk cascade and the representative-chunk search.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu      sync.RWMutex
	metric  domain.DistanceMetric
	items   map[string]domain.Item
	threads map[string]domain.Thread
	byKey   map[string]string // thread_key -> thread id
	chunks  map[string][]domain.ThreadChunk
}

// NewIndexStore creates an empty in-memory store using squared
// Euclidean distance.
func NewIndexStore() *IndexStore {
	return NewIndexStoreWithMetric(domain.MetricSquaredEuclidean)
}

// NewIndexStoreWithMetric creates an empty store with the given metric.
func NewIndexStoreWithMetric(metric domain.DistanceMetric) *IndexStore {
	return &IndexStore{
		metric:  metric,
		items:   make(map[string]domain.Item),
		threads: make(map[string]domain.Thread),
		byKey:   make(map[string]string),
		chunks:  make(map[string][]domain.ThreadChunk),
	}
}

// SaveItem stores an item.
func (s *IndexStore) SaveItem(_ context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

// GetItem retrieves an item by id.
func (s *IndexStore) GetItem(_ context.Context, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// GetItems retrieves items in id order, skipping missing ids.
func (s *IndexStore) GetItems(_ context.Context, ids []string) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// DeleteItem removes an item.
func (s *IndexStore) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// SaveThread stores or updates a thread.
func (s *IndexStore) SaveThread(_ context.Context, thread domain.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[thread.ID] = thread
	s.byKey[thread.ThreadKey] = thread.ID
	return nil
}

// GetThread retrieves a thread by system id.
func (s *IndexStore) GetThread(_ context.Context, id string) (*domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	thread, ok := s.threads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &thread, nil
}

// GetThreadByKey retrieves a thread by its external key.
func (s *IndexStore) GetThreadByKey(_ context.Context, threadKey string) (*domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[threadKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	thread := s.threads[id]
	return &thread, nil
}

// DeleteThread removes a thread and its chunks.
func (s *IndexStore) DeleteThread(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if thread, ok := s.threads[id]; ok {
		delete(s.byKey, thread.ThreadKey)
	}
	delete(s.threads, id)
	delete(s.chunks, id)
	return nil
}

// SaveThreadContent writes a thread, its items and its chunks under one
// lock acquisition, replacing the thread's prior chunks.
func (s *IndexStore) SaveThreadContent(
	_ context.Context,
	thread domain.Thread,
	items []domain.Item,
	chunks []domain.ThreadChunk,
) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[thread.ID] = thread
	s.byKey[thread.ThreadKey] = thread.ID
	for _, item := range items {
		s.items[item.ID] = item
	}
	s.chunks[thread.ID] = append([]domain.ThreadChunk(nil), chunks...)
	return nil
}

// SaveChunks appends chunks to their threads.
func (s *IndexStore) SaveChunks(_ context.Context, chunks []domain.ThreadChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.ThreadID] = append(s.chunks[chunk.ThreadID], chunk)
	}
	return nil
}

// GetChunks retrieves a thread's chunks ordered by chunk index.
func (s *IndexStore) GetChunks(_ context.Context, threadID string) ([]domain.ThreadChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := append([]domain.ThreadChunk(nil), s.chunks[threadID]...)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks, nil
}

// SearchVectors scans representative chunks and returns the k nearest.
func (s *IndexStore) SearchVectors(
	_ context.Context,
	query []float32,
	k int,
	types []domain.ItemType,
) ([]domain.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	allowed := make(map[domain.ItemType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []domain.VectorHit
	for threadID, chunks := range s.chunks {
		for _, chunk := range chunks {
			if !chunk.Representative() {
				continue
			}
			if len(types) > 0 && !allowed[chunk.Type] {
				continue
			}
			hits = append(hits, domain.VectorHit{
				ThreadID: threadID,
				Type:     chunk.Type,
				Distance: s.dist(query, chunk.Embedding),
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close is a no-op.
func (s *IndexStore) Close() error {
	return nil
}

// dist computes the configured metric.
func (s *IndexStore) dist(a, b []float32) float64 {
	if s.metric == domain.MetricCosine {
		var dot, normA, normB float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
			normA += float64(a[i]) * float64(a[i])
			normB += float64(b[i]) * float64(b[i])
		}
		if normA == 0 || normB == 0 {
			return 1
		}
		return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
