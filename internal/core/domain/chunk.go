package domain

// ThreadChunk is one embeddable window of a Thread's joined content.
// Chunks are immutable and live exactly as long as their owning thread.
type ThreadChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// ThreadID links to the owning Thread.
	ThreadID string

	// ParentIDs lists the item ids whose text this chunk spans.
	ParentIDs []string

	// Type is the owning thread's item type, denormalised for
	// type-filtered search.
	Type ItemType

	// Content is the window text.
	Content string

	// Embedding is the fixed-length vector for this window.
	Embedding []float32

	// ChunkIndex orders chunks within the thread. Index 0 is the
	// thread's representative chunk; cross-thread ranking queries
	// consider only representative chunks.
	ChunkIndex int

	// StartPosition and EndPosition are byte offsets into the owning
	// Thread.Content, so Content == Thread.Content[Start:End].
	StartPosition int
	EndPosition   int
}

// Representative reports whether this is the thread's ranking chunk.
func (c ThreadChunk) Representative() bool {
	return c.ChunkIndex == 0
}
