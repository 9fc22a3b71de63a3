package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search performs semantic search across all indexed documents,
	// with supersession-aware score adjustment.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
