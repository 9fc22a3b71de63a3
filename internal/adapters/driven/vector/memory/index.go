// Package memory provides an in-memory vector index with exact cosine
// similarity search. It backs the "memory" vector provider and keeps
// the engine usable without a running Qdrant instance; on startup the
// index is hydrated from the embeddings persisted in the document store.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{
		vectors: make(map[string][]float32),
	}
}

// Add inserts or replaces the vector for the given chunk ID.
func (i *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" {
		return fmt.Errorf("%w: empty chunk id", domain.ErrInvalidInput)
	}

	stored := make([]float32, len(embedding))
	copy(stored, embedding)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.vectors[chunkID] = stored
	return nil
}

// AddBatch inserts or replaces vectors for multiple chunks.
func (i *Index) AddBatch(ctx context.Context, chunkIDs []string, embeddings [][]float32) error {
	if len(chunkIDs) != len(embeddings) {
		return fmt.Errorf("%w: %d ids for %d embeddings", domain.ErrInvalidInput, len(chunkIDs), len(embeddings))
	}
	for idx, chunkID := range chunkIDs {
		if err := i.Add(ctx, chunkID, embeddings[idx]); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a vector from the index. Unknown IDs are ignored.
func (i *Index) Delete(_ context.Context, chunkID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.vectors, chunkID)
	return nil
}

// DeleteBatch removes multiple vectors from the index.
func (i *Index) DeleteBatch(_ context.Context, chunkIDs []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, chunkID := range chunkIDs {
		delete(i.vectors, chunkID)
	}
	return nil
}

// Search finds the k nearest neighbours to the query vector by scoring
// every stored vector. Exact search keeps results deterministic; the
// index is meant for working sets that fit comfortably in memory.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}

	i.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(i.vectors))
	for chunkID, vector := range i.vectors {
		similarity := cosineSimilarity(query, vector)
		if similarity == 0 {
			continue
		}
		hits = append(hits, driven.VectorHit{ChunkID: chunkID, Similarity: similarity})
	}
	i.mu.RUnlock()

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].ChunkID < hits[b].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close releases resources (no-op for the memory index).
func (i *Index) Close() error {
	return nil
}

// Len reports how many vectors the index holds.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.vectors)
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched dimensions and zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
