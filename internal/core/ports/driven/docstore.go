package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// Upsert stores or updates a document. The repository holds at most
	// one record per (TenantKey, Path); an existing record keeps its ID
	// and CreatedAt.
	Upsert(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document by ID.
	GetByID(ctx context.Context, id string) (*domain.Document, error)

	// GetByTenantAndPath retrieves a document by its tenant key and
	// root-relative path.
	GetByTenantAndPath(ctx context.Context, tenantKey, path string) (*domain.Document, error)

	// GetAllForTenant returns every document under a tenant key.
	GetAllForTenant(ctx context.Context, tenantKey string) ([]domain.Document, error)

	// Delete removes a document and its chunks.
	Delete(ctx context.Context, id string) error

	// UpsertChunks stores chunks for a document.
	UpsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a single chunk by ID.
	GetChunk(ctx context.Context, chunkID string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document, ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteChunks removes all chunks for a document.
	DeleteChunks(ctx context.Context, documentID string) error

	// UpdatePromotionLevel sets the promotion level on a document and
	// mirrors it onto the document's chunks.
	UpdatePromotionLevel(ctx context.Context, documentID string, level domain.PromotionLevel) error

	// Close releases resources.
	Close() error
}
