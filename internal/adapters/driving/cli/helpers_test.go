package cli

import (
	"context"
	"time"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results []domain.SearchResult
	items   []domain.Item
	err     error
}

func (m *mockRetriever) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockRetriever) FullThread(_ context.Context, _ string, _ int) ([]domain.Item, error) {
	return m.items, m.err
}

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	report *driving.ImportReport
	err    error
	got    []domain.Item
}

func (m *mockIngestor) Import(_ context.Context, items []domain.Item) (*driving.ImportReport, error) {
	m.got = items
	if m.report == nil && m.err == nil {
		report := &driving.ImportReport{}
		for _, item := range items {
			report.ItemIDs = append(report.ItemIDs, item.ID)
		}
		return report, nil
	}
	return m.report, m.err
}

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() func() {
	oldRetriever := retrievalService
	oldIngestor := ingestService

	when := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	retrievalService = &mockRetriever{
		results: []domain.SearchResult{{
			Thread: domain.Thread{
				ID:      "thr-1",
				Type:    domain.ItemTypeNote,
				Snippet: "reading list",
				ItemIDs: []string{"n1"},
			},
			Chunk:      domain.ThreadChunk{Content: "finish the distributed systems paper"},
			Items:      []domain.Item{{ID: "n1", Title: "reading list", Date: when}},
			Distance:   0.25,
			Similarity: 0.8,
		}},
		items: []domain.Item{
			{ID: "n1", Title: "reading list", Content: "finish the paper", Date: when},
		},
	}
	ingestService = &mockIngestor{}

	return func() {
		retrievalService = oldRetriever
		ingestService = oldIngestor
	}
}
