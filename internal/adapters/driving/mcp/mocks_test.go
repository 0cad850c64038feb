package mcp

import (
	"context"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results   []domain.SearchResult
	items     []domain.Item
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
	lastID    string
	lastCount int
}

func (m *mockRetriever) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockRetriever) FullThread(_ context.Context, threadID string, itemCount int) ([]domain.Item, error) {
	m.lastID = threadID
	m.lastCount = itemCount
	return m.items, m.err
}

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	report *driving.ImportReport
	err    error
}

func (m *mockIngestor) Import(_ context.Context, _ []domain.Item) (*driving.ImportReport, error) {
	return m.report, m.err
}
