package driven

import (
	"context"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// IndexStore is the durable store for items, threads and vector-indexed
// chunks. The store is a single logical writer: implementations serialize
// concurrent write statements and keep multi-row writes transactional so
// readers never observe partial rows. Missing ids yield domain.ErrNotFound,
// which callers treat as a soft miss.
type IndexStore interface {
	// SaveItem persists an item into its type-specific table.
	SaveItem(ctx context.Context, item domain.Item) error

	// GetItem retrieves an item by id.
	GetItem(ctx context.Context, id string) (*domain.Item, error)

	// GetItems retrieves the given items, skipping missing ids.
	// Returned order follows ids.
	GetItems(ctx context.Context, ids []string) ([]domain.Item, error)

	// DeleteItem removes an item by id.
	DeleteItem(ctx context.Context, id string) error

	// SaveThread persists or updates a thread row.
	SaveThread(ctx context.Context, thread domain.Thread) error

	// GetThread retrieves a thread by system id.
	GetThread(ctx context.Context, id string) (*domain.Thread, error)

	// GetThreadByKey retrieves a thread by its external thread key.
	GetThreadByKey(ctx context.Context, threadKey string) (*domain.Thread, error)

	// DeleteThread removes a thread and all of its chunks. The chunk
	// cascade is enforced here; no database-level cascade is assumed.
	DeleteThread(ctx context.Context, id string) error

	// SaveThreadContent writes a thread, its items and its chunks in a
	// single transaction, replacing any chunks the thread had before.
	// Either every row appears or none do.
	SaveThreadContent(ctx context.Context, thread domain.Thread, items []domain.Item, chunks []domain.ThreadChunk) error

	// SaveChunks persists chunks in one transaction.
	SaveChunks(ctx context.Context, chunks []domain.ThreadChunk) error

	// GetChunks retrieves a thread's chunks ordered by chunk index.
	GetChunks(ctx context.Context, threadID string) ([]domain.ThreadChunk, error)

	// SearchVectors returns up to k representative chunks nearest to the
	// query vector, ascending by distance. A non-empty types filter
	// restricts candidates to those item types. The distance metric is
	// fixed when the store is opened.
	SearchVectors(ctx context.Context, query []float32, k int, types []domain.ItemType) ([]domain.VectorHit, error)

	// Close releases the underlying resources.
	Close() error
}
