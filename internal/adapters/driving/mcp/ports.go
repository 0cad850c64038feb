package mcp

import (
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Retriever answers semantic queries and thread lookups.
	Retriever driving.Retriever

	// Ingestor imports items. Optional; without it the server is
	// read-only.
	Ingestor driving.Ingestor
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
