package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// SearchInput is the input schema for the semantic_search tool.
type SearchInput struct {
	Query string   `json:"query" jsonschema:"natural language query to search the index with"`
	Limit int      `json:"limit,omitempty" jsonschema:"maximum number of threads to return (default 10)"`
	Types []string `json:"types,omitempty" jsonschema:"restrict results to these item types: document, message, email, note"`
}

// SearchOutput is the output schema for the semantic_search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents one matched thread.
type SearchResultOutput struct {
	ThreadID   string       `json:"thread_id"`
	Type       string       `json:"type"`
	Snippet    string       `json:"snippet"`
	Similarity float64      `json:"similarity"`
	Chunk      string       `json:"chunk,omitempty"`
	Items      []ItemOutput `json:"items"`
}

// ItemOutput represents one item inside a thread.
type ItemOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

// ThreadInput is the input schema for the get_full_thread tool.
type ThreadInput struct {
	ThreadID  string `json:"thread_id" jsonschema:"thread id from a semantic_search result"`
	ItemCount int    `json:"item_count,omitempty" jsonschema:"return only the first N items (default all)"`
}

// ThreadOutput is the output schema for the get_full_thread tool.
type ThreadOutput struct {
	ThreadID string             `json:"thread_id"`
	Items    []ThreadItemOutput `json:"items"`
	Count    int                `json:"count"`
}

// ThreadItemOutput carries an item's full content.
type ThreadItemOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "semantic_search",
		Description: "Search indexed documents, messages, emails and notes by meaning",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_full_thread",
		Description: "Fetch the complete content of a thread found via semantic_search",
	}, s.handleFullThread)
}

// handleSearch handles the semantic_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	types := make([]domain.ItemType, 0, len(input.Types))
	for _, t := range input.Types {
		it := domain.ItemType(t)
		if !it.Valid() {
			return nil, SearchOutput{}, fmt.Errorf("unknown item type %q: %w", t, domain.ErrUnsupportedType)
		}
		types = append(types, it)
	}

	opts := domain.SearchOptions{Limit: input.Limit, Types: types}
	results, err := s.ports.Retriever.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = toResultOutput(results[i])
	}
	return nil, output, nil
}

// handleFullThread handles the get_full_thread tool invocation.
func (s *Server) handleFullThread(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ThreadInput,
) (*mcp.CallToolResult, ThreadOutput, error) {
	if input.ThreadID == "" {
		return nil, ThreadOutput{}, fmt.Errorf("thread_id is required: %w", domain.ErrInvalidInput)
	}

	items, err := s.ports.Retriever.FullThread(ctx, input.ThreadID, input.ItemCount)
	if err != nil {
		return nil, ThreadOutput{}, err
	}

	output := ThreadOutput{
		ThreadID: input.ThreadID,
		Items:    make([]ThreadItemOutput, len(items)),
		Count:    len(items),
	}
	for i, item := range items {
		output.Items[i] = ThreadItemOutput{
			ID:      item.ID,
			Title:   item.Title,
			Content: item.Content,
			Date:    item.Date.Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

func toResultOutput(r domain.SearchResult) SearchResultOutput {
	items := make([]ItemOutput, len(r.Items))
	for i, item := range r.Items {
		items[i] = ItemOutput{
			ID:      item.ID,
			Title:   item.Title,
			Snippet: item.Snippet,
			Date:    item.Date.Format(time.RFC3339),
		}
	}
	return SearchResultOutput{
		ThreadID:   r.Thread.ID,
		Type:       string(r.Thread.Type),
		Snippet:    r.Thread.Snippet,
		Similarity: r.Similarity,
		Chunk:      r.Chunk.Content,
		Items:      items,
	}
}
