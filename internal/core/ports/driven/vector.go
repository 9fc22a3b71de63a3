package driven

import "context"

// VectorIndex provides semantic similarity search operations.
// Backed by Qdrant or an in-memory index for approximate nearest
// neighbour search.
type VectorIndex interface {
	// Add inserts or replaces the vector for the given chunk ID.
	Add(ctx context.Context, chunkID string, embedding []float32) error

	// AddBatch inserts or replaces vectors for multiple chunks in one
	// round trip. IDs and embeddings are parallel slices.
	AddBatch(ctx context.Context, chunkIDs []string, embeddings [][]float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, chunkID string) error

	// DeleteBatch removes multiple vectors from the index.
	DeleteBatch(ctx context.Context, chunkIDs []string) error

	// Search finds the k nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
