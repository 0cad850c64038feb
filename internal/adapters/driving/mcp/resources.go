package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for recall resources.
const uriScheme = "recall://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for full thread content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "threads/{threadId}",
		Name:        "thread-content",
		Description: "Full content of an indexed thread",
		MIMEType:    "application/json",
	}, s.handleThreadResource)
}

// handleThreadResource returns a thread's items as JSON.
func (s *Server) handleThreadResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	threadID := strings.TrimPrefix(req.Params.URI, uriScheme+"threads/")
	if threadID == "" || threadID == req.Params.URI {
		return nil, fmt.Errorf("invalid thread URI: %s", req.Params.URI)
	}

	items, err := s.ports.Retriever.FullThread(ctx, threadID, 0)
	if err != nil {
		return nil, fmt.Errorf("reading thread %s: %w", threadID, err)
	}

	out := make([]ThreadItemOutput, len(items))
	for i, item := range items {
		out[i] = ThreadItemOutput{
			ID:      item.ID,
			Title:   item.Title,
			Content: item.Content,
			Date:    item.Date.Format(time.RFC3339),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding thread %s: %w", threadID, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
