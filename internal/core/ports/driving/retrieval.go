package driving

import (
	"context"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// Retriever answers semantic queries over the index.
type Retriever interface {
	// Search embeds the query, runs the k-nearest-neighbour search and
	// returns hydrated results in ascending distance order. No results
	// is an empty slice, never an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// FullThread returns up to itemCount hydrated items of a thread in
	// thread order. Zero or negative itemCount means all items.
	FullThread(ctx context.Context, threadID string, itemCount int) ([]domain.Item, error)
}
