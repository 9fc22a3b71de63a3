package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// IndexService runs the indexing pipeline for individual files.
// Paths are relative to the watched root; absolute paths under the root
// are accepted and normalised.
type IndexService interface {
	// IndexFile parses, chunks, embeds, and stores one file.
	// Input errors are recorded on the result, not returned.
	IndexFile(ctx context.Context, path string) (*domain.IndexResult, error)

	// RemoveFile deletes a file's document, chunks, vectors, references,
	// and supersession entries.
	RemoveFile(ctx context.Context, path string) (*domain.RemoveResult, error)

	// ReindexAll re-runs the pipeline for every stored document.
	// Cancellation is honoured between documents.
	ReindexAll(ctx context.Context) ([]domain.IndexResult, error)
}
