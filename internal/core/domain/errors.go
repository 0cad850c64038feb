package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Callers treat this as a soft miss, never a fault.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInconsistentThreadKey indicates a thread was built from items
	// that do not all share the same external thread key.
	ErrInconsistentThreadKey = errors.New("inconsistent thread key")

	// ErrInvalidChunkConfig indicates the chunk window/overlap
	// configuration is unusable (overlap >= window size).
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrMalformedBlob indicates a stored embedding blob could not be
	// decoded back into a vector of the configured dimension.
	ErrMalformedBlob = errors.New("malformed embedding blob")

	// ErrDimensionMismatch indicates an embedding vector's length does
	// not match the store's configured dimension. This is a
	// configuration error, fatal at startup.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and semantic search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedType indicates an unknown item type.
	ErrUnsupportedType = errors.New("unsupported item type")
)
