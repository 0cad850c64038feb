// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - IndexStore: durable storage for items, threads and vector-indexed
//     chunks, including the k-nearest-neighbour query
//   - Embedder: generates fixed-dimension vector embeddings
//
// # Optional Interfaces
//
//   - ConfigStore: application configuration. Without it, defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
