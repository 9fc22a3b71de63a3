package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	byPath    map[string]string
	chunks    map[string][]domain.Chunk
	chunkDocs map[string]string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		byPath:    make(map[string]string),
		chunks:    make(map[string][]domain.Chunk),
		chunkDocs: make(map[string]string),
	}
}

// Upsert stores or updates a document. The (TenantKey, Path) slot keeps
// its identity across upserts.
func (s *DocumentStore) Upsert(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *doc
	key := pathKey(stored.TenantKey, stored.Path)
	if existingID, ok := s.byPath[key]; ok {
		existing := s.documents[existingID]
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	s.documents[stored.ID] = stored
	s.byPath[key] = stored.ID
	return nil
}

// GetByID retrieves a document by ID.
func (s *DocumentStore) GetByID(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetByTenantAndPath retrieves a document by tenant key and path.
func (s *DocumentStore) GetByTenantAndPath(_ context.Context, tenantKey, path string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPath[pathKey(tenantKey, path)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.documents[id]
	return &doc, nil
}

// GetAllForTenant returns every document under a tenant key.
func (s *DocumentStore) GetAllForTenant(_ context.Context, tenantKey string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.TenantKey == tenantKey {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Delete removes a document and its chunks.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.byPath, pathKey(doc.TenantKey, doc.Path))
	s.dropChunksLocked(id)
	return nil
}

// UpsertChunks stores chunks for a document, replacing any previous set.
func (s *DocumentStore) UpsertChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := chunks[0].DocumentID
	s.dropChunksLocked(docID)
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[docID] = stored
	for _, c := range stored {
		s.chunkDocs[c.ID] = docID
	}
	return nil
}

// GetChunk retrieves a single chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, chunkID string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docID, ok := s.chunkDocs[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, c := range s.chunks[docID] {
		if c.ID == chunkID {
			chunk := c
			return &chunk, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunks retrieves all chunks for a document.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.chunks[documentID]
	chunks := make([]domain.Chunk, len(stored))
	copy(chunks, stored)
	return chunks, nil
}

// DeleteChunks removes all chunks for a document.
func (s *DocumentStore) DeleteChunks(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropChunksLocked(documentID)
	return nil
}

// UpdatePromotionLevel sets the promotion level on a document and its chunks.
func (s *DocumentStore) UpdatePromotionLevel(_ context.Context, documentID string, level domain.PromotionLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Promotion = level
	s.documents[documentID] = doc
	chunks := s.chunks[documentID]
	for i := range chunks {
		chunks[i].Promotion = level
	}
	return nil
}

// Close releases resources (no-op for memory store).
func (s *DocumentStore) Close() error {
	return nil
}

// dropChunksLocked removes a document's chunks and their ID index entries.
// Caller must hold the write lock.
func (s *DocumentStore) dropChunksLocked(docID string) {
	for _, c := range s.chunks[docID] {
		delete(s.chunkDocs, c.ID)
	}
	delete(s.chunks, docID)
}

func pathKey(tenantKey, path string) string {
	return tenantKey + "\x00" + path
}
