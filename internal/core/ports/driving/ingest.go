package driving

import (
	"context"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// ThreadFailure records one thread whose pipeline failed during import.
type ThreadFailure struct {
	// ThreadKey identifies the failed group.
	ThreadKey string

	// Err is the failure cause.
	Err error
}

// ImportReport is the outcome of one Import call.
type ImportReport struct {
	// ItemIDs lists the persisted item ids in the order the items
	// were supplied. Items of failed threads are absent.
	ItemIDs []string

	// Failures lists per-thread failures. A failed thread never
	// aborts its siblings.
	Failures []ThreadFailure
}

// Ingestor drives the ingestion pipeline.
type Ingestor interface {
	// Import persists the items, grouping them into threads, chunking
	// and embedding each thread's content, and writing every thread's
	// rows atomically. Sibling threads proceed concurrently; failures
	// are collected per thread in the report. The returned error is
	// reserved for whole-call failures such as cancellation.
	Import(ctx context.Context, items []domain.Item) (*ImportReport, error)
}
