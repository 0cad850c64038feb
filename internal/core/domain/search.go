package domain

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Limit is the maximum number of results (k). Defaults to 10.
	Limit int

	// Types restricts results to the given item types.
	// Empty means all types.
	Types []ItemType
}

// SearchResult is a hydrated nearest-neighbour hit.
// It is a query-time projection, never persisted.
type SearchResult struct {
	// Chunk is the representative chunk that matched.
	Chunk ThreadChunk

	// Thread is the owning thread.
	Thread Thread

	// Items are the fully hydrated items of Thread.ItemIDs,
	// in thread order.
	Items []Item

	// Distance is the raw vector-index distance. Smaller is more
	// similar; ranking is always by Distance.
	Distance float64

	// Similarity maps Distance into (0, 1] for display:
	// 1 / (1 + Distance). Never used for ranking.
	Similarity float64
}

// VectorHit is a raw nearest-neighbour row before hydration.
type VectorHit struct {
	// ThreadID is the owning thread of the matched chunk.
	ThreadID string

	// Type is the matched chunk's item type.
	Type ItemType

	// Distance is the raw metric distance to the query vector.
	Distance float64
}
