package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
	"github.com/MordecaiM24/recall-sub000/internal/logger"
	"github.com/MordecaiM24/recall-sub000/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// defaultConcurrency bounds the per-thread pipeline fan-out.
const defaultConcurrency = 4

// IngestService runs the ingestion pipeline: group incoming items into
// threads, chunk and embed each thread's content, and persist each
// thread's rows atomically.
type IngestService struct {
	store       driven.IndexStore
	embedder    driven.Embedder
	chunker     *chunker.Chunker
	concurrency int
}

// Option configures the ingest service.
type Option func(*IngestService)

// WithConcurrency bounds how many thread pipelines run at once.
func WithConcurrency(n int) Option {
	return func(s *IngestService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	store driven.IndexStore,
	embedder driven.Embedder,
	chunker *chunker.Chunker,
	opts ...Option,
) *IngestService {
	s := &IngestService{
		store:       store,
		embedder:    embedder,
		chunker:     chunker,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import runs the pipeline for a batch of items.
//
// Items are grouped by thread key; each group is processed by its own
// task under a bounded fan-out with a join barrier, so Import returns
// only when every thread either committed or failed. One thread's
// failure never aborts its siblings; failures are collected in the
// report. The returned error is reserved for whole-call failures such
// as cancellation.
func (s *IngestService) Import(ctx context.Context, items []domain.Item) (*driving.ImportReport, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Import")
	logger.Debug("Importing %d items", len(items))

	groups, keys := domain.GroupByKey(items)
	logger.Debug("Grouped into %d threads", len(keys))

	var (
		mu       sync.Mutex
		failed   = make(map[string]error, len(keys))
		wg       sync.WaitGroup
		sem      = make(chan struct{}, s.concurrency)
		canceled bool
	)

	for _, key := range keys {
		select {
		case <-ctx.Done():
			canceled = true
		default:
		}
		if canceled {
			mu.Lock()
			failed[key] = ctx.Err()
			mu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(key string, group []domain.Item) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.importThread(ctx, key, group); err != nil {
				logger.Warn("Thread %q failed: %v", key, err)
				mu.Lock()
				failed[key] = err
				mu.Unlock()
			}
		}(key, groups[key])
	}

	wg.Wait()

	report := &driving.ImportReport{}
	for _, item := range items {
		if _, bad := failed[item.ThreadKey]; !bad {
			report.ItemIDs = append(report.ItemIDs, item.ID)
		}
	}
	for _, key := range keys {
		if err, bad := failed[key]; bad {
			report.Failures = append(report.Failures, driving.ThreadFailure{ThreadKey: key, Err: err})
		}
	}

	logger.Info("Import complete: %d items persisted, %d threads failed",
		len(report.ItemIDs), len(report.Failures))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// importThread runs one thread's pipeline: find-or-create the thread by
// its external key, merge the item lists, rebuild content, chunk, embed
// and persist everything in a single store transaction.
func (s *IngestService) importThread(ctx context.Context, key string, group []domain.Item) error {
	merged, threadID, err := s.mergeWithExisting(ctx, key, group)
	if err != nil {
		return err
	}

	thread, err := domain.BuildThread(threadID, merged)
	if err != nil {
		return err
	}

	chunks, err := s.buildChunks(ctx, thread)
	if err != nil {
		return err
	}

	if err := s.store.SaveThreadContent(ctx, thread, merged, chunks); err != nil {
		return fmt.Errorf("persist thread: %w", err)
	}

	logger.Debug("Thread %q: %d items, %d chunks", key, len(merged), len(chunks))
	return nil
}

// mergeWithExisting resolves find-or-create for a thread key. Re-import
// is idempotent: an existing thread keeps its id, re-supplied items keep
// their stored position, and genuinely new items append in input order.
func (s *IngestService) mergeWithExisting(
	ctx context.Context,
	key string,
	group []domain.Item,
) ([]domain.Item, string, error) {
	existing, err := s.store.GetThreadByKey(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return group, uuid.New().String(), nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("find thread by key: %w", err)
	}

	prior, err := s.store.GetItems(ctx, existing.ItemIDs)
	if err != nil {
		return nil, "", fmt.Errorf("load existing items: %w", err)
	}

	seen := make(map[string]bool, len(prior))
	merged := make([]domain.Item, 0, len(prior)+len(group))
	for _, item := range prior {
		seen[item.ID] = true
		merged = append(merged, item)
	}
	for _, item := range group {
		if !seen[item.ID] {
			merged = append(merged, item)
		}
	}
	return merged, existing.ID, nil
}

// buildChunks windows the thread content and embeds every window.
func (s *IngestService) buildChunks(ctx context.Context, thread domain.Thread) ([]domain.ThreadChunk, error) {
	windows := s.chunker.Split(thread.Content)
	if len(windows) == 0 {
		return nil, nil
	}

	texts := make([]string, len(windows))
	for i, w := range windows {
		texts[i] = w.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(windows) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks: %w",
			len(embeddings), len(windows), domain.ErrDimensionMismatch)
	}

	chunks := make([]domain.ThreadChunk, len(windows))
	for i, w := range windows {
		chunks[i] = domain.ThreadChunk{
			ID:            uuid.New().String(),
			ThreadID:      thread.ID,
			ParentIDs:     thread.ItemIDs,
			Type:          thread.Type,
			Content:       w.Text,
			Embedding:     embeddings[i],
			ChunkIndex:    i,
			StartPosition: w.Start,
			EndPosition:   w.End,
		}
	}
	return chunks, nil
}
