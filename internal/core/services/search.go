package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// defaultSearchLimit caps result sets when the caller does not.
const defaultSearchLimit = 20

// SearchService provides semantic search over indexed chunks.
type SearchService struct {
	docStore     driven.DocumentStore
	vectorIndex  driven.VectorIndex
	embedder     driven.EmbeddingService
	supersession driving.SupersessionService
}

// NewSearchService creates a search service. embedder and vectorIndex
// may be nil; Search then reports the matching unavailable error.
func NewSearchService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	supersession driving.SupersessionService,
) *SearchService {
	return &SearchService{
		docStore:     docStore,
		vectorIndex:  vectorIndex,
		embedder:     embedder,
		supersession: supersession,
	}
}

// Search embeds the query, finds the nearest chunks, and returns
// hydrated results with supersession penalties applied.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	// Request extra hits so filtering superseded documents and skipping
	// stale vectors still fills the page.
	internalLimit := limit * 2
	logger.Debug("Limit: %d, internal limit: %d", limit, internalLimit)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, internalLimit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	results, err := s.hydrate(ctx, hits)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	results = s.supersession.AdjustScores(results)

	if opts.ExcludeSuperseded {
		results = dropSuperseded(results)
	}

	if len(results) > limit {
		results = results[:limit]
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}

// hydrate converts vector hits into full results. Hits whose chunk or
// document vanished since indexing are skipped; the vector index is
// allowed to lag the repository.
func (s *SearchService) hydrate(ctx context.Context, hits []driven.VectorHit) ([]domain.SearchResult, error) {
	results := make([]domain.SearchResult, 0, len(hits))

	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}

		doc, err := s.docStore.GetByID(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}

		results = append(results, domain.SearchResult{
			Document: *doc,
			Chunk:    *chunk,
			Score:    hit.Similarity,
		})
	}

	return results, nil
}

// dropSuperseded filters currently-superseded documents out.
func dropSuperseded(results []domain.SearchResult) []domain.SearchResult {
	kept := results[:0]
	for _, r := range results {
		if !r.Superseded {
			kept = append(kept, r)
		}
	}
	return kept
}
