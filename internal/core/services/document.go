package services

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService answers queries about indexed documents.
type DocumentService struct {
	root         string
	tenantKey    string
	docStore     driven.DocumentStore
	events       driven.EventPublisher
	references   driving.ReferenceService
	supersession driving.SupersessionService
}

// NewDocumentService creates a document query service.
// events may be nil.
func NewDocumentService(
	root string,
	tenantKey string,
	docStore driven.DocumentStore,
	events driven.EventPublisher,
	references driving.ReferenceService,
	supersession driving.SupersessionService,
) *DocumentService {
	return &DocumentService{
		root:         root,
		tenantKey:    tenantKey,
		docStore:     docStore,
		events:       events,
		references:   references,
		supersession: supersession,
	}
}

// List returns all documents for the active tenant, sorted by path.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.GetAllForTenant(ctx, s.tenantKey)
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Get retrieves a document by path.
func (s *DocumentService) Get(ctx context.Context, p string) (*domain.Document, error) {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil, err
	}
	return s.docStore.GetByTenantAndPath(ctx, s.tenantKey, rel)
}

// GetContent returns the concatenated content of all chunks.
func (s *DocumentService) GetContent(ctx context.Context, p string) (string, error) {
	doc, err := s.Get(ctx, p)
	if err != nil {
		return "", err
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return "", err
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })

	var builder strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(chunk.Content)
	}
	return builder.String(), nil
}

// GetDetails returns an aggregate view combining the stored record
// with link and supersession state.
func (s *DocumentService) GetDetails(ctx context.Context, p string) (*driving.DocumentDetails, error) {
	doc, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	chunkCount := 0
	if err == nil {
		chunkCount = len(chunks)
	}

	return &driving.DocumentDetails{
		ID:           doc.ID,
		TenantKey:    doc.TenantKey,
		Path:         doc.Path,
		Title:        doc.Title,
		DocType:      doc.DocType,
		Promotion:    doc.Promotion,
		ChunkCount:   chunkCount,
		Superseded:   s.supersession.IsSuperseded(doc.Path),
		SupersededBy: s.supersession.SupersededBy(doc.Path),
		Links:        len(s.references.Links(doc.Path)),
		Backlinks:    len(s.references.Backlinks(doc.Path)),
		BrokenLinks:  len(s.references.BrokenLinks(doc.Path)),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

// Promote sets a document's promotion level and announces the change.
// The stored level survives re-indexing while the header stays silent.
func (s *DocumentService) Promote(ctx context.Context, p string, level domain.PromotionLevel) error {
	if !level.IsValid() {
		return domain.ErrInvalidInput
	}

	doc, err := s.Get(ctx, p)
	if err != nil {
		return err
	}
	if doc.Promotion == level {
		return nil
	}

	if err := s.docStore.UpdatePromotionLevel(ctx, doc.ID, level); err != nil {
		return err
	}

	if s.events != nil {
		event := domain.PromotionChangedEvent{
			TenantKey:  s.tenantKey,
			Path:       doc.Path,
			DocumentID: doc.ID,
			Before:     doc.Promotion,
			After:      level,
		}
		_ = s.events.PublishPromotionChanged(ctx, event)
	}

	return nil
}
