// Package domain defines the core business entities for Recall.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Item: One imported unit of content (document, message, email, note)
//   - Thread: An aggregate of Items sharing an external thread key
//   - ThreadChunk: One embeddable window of a Thread's content
//   - SearchResult: A hydrated nearest-neighbour query hit
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
