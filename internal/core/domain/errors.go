package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWatchActive indicates a watch is already running on a root.
	// Each engine instance owns at most one watched root at a time.
	ErrWatchActive = errors.New("watch already active")

	// ErrIndexBusy indicates an indexing batch is already executing.
	// The dispatch gate drops triggers instead of queueing them;
	// reconciliation heals anything a dropped trigger would have done.
	ErrIndexBusy = errors.New("indexing batch in progress")

	// ErrVetoed indicates a lifecycle hook rejected the operation.
	ErrVetoed = errors.New("operation vetoed by hook")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search and chunk vectors are disabled.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrUnsupportedType indicates an unknown provider or adapter type.
	ErrUnsupportedType = errors.New("unsupported type")
)
