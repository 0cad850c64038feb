// Package mcp provides an MCP (Model Context Protocol) server adapter
// for recall. It lets AI assistants search the local index and pull
// full conversations for context.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
