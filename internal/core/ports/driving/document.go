package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// DocumentService answers queries about indexed documents.
// Paths are relative to the watched root.
type DocumentService interface {
	// List returns all documents for the active tenant.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by path.
	Get(ctx context.Context, path string) (*domain.Document, error)

	// GetContent returns the concatenated content of all chunks.
	GetContent(ctx context.Context, path string) (string, error)

	// GetDetails returns an aggregate view for display, combining the
	// stored record with link and supersession state.
	GetDetails(ctx context.Context, path string) (*DocumentDetails, error)

	// Promote sets a document's promotion level. The level persists
	// across re-indexing while the header stays silent about promotion.
	Promote(ctx context.Context, path string, level domain.PromotionLevel) error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// TenantKey isolates the working copy.
	TenantKey string

	// Path is relative to the watched root.
	Path string

	// Title is the document title.
	Title string

	// DocType is the declared document type, if any.
	DocType string

	// Promotion is the current promotion level.
	Promotion domain.PromotionLevel

	// ChunkCount is the number of chunks.
	ChunkCount int

	// Superseded indicates another document replaces this one.
	Superseded bool

	// SupersededBy lists the replacing documents.
	SupersededBy []string

	// Links is the number of resolved outgoing references.
	Links int

	// Backlinks is the number of documents referencing this one.
	Backlinks int

	// BrokenLinks is the number of unresolved references.
	BrokenLinks int

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-indexed.
	UpdatedAt time.Time
}
