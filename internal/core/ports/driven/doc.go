// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document and chunk persistence
//   - FileWatcher: Filesystem change notification
//   - DocTypeRegistry: Document type schemas for header validation
//   - PostProcessorPipeline: Chunk generation from document bodies
//   - ConfigStore: Application configuration
//   - ReconcileHistoryStore: Reconciliation run history
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, semantic
//     search is disabled and documents are indexed without vectors.
//   - VectorIndex: Vector storage/search (Qdrant or in-memory). Only
//     enabled when EmbeddingService is configured.
//   - EventPublisher: Supersession and promotion event fan-out.
//   - LifecycleHooks: Veto and observation points around indexing.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
