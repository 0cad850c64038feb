// Package sqlite provides the durable IndexStore adapter.
//
// A single database file holds the typed content tables (documents,
// messages, emails, notes), the thread table and the vector-indexed
// chunk table. Embeddings are stored as little-endian float32 blobs and
// searched with a linear scan over representative chunks, which is fast
// enough for a personal corpus.
//
// The schema is versioned by a single integer supplied by the caller.
// A mismatch with the persisted version triggers a destructive reset:
// all tables are dropped and recreated empty. The index is derived data
// and can always be rebuilt by re-importing.
package sqlite
