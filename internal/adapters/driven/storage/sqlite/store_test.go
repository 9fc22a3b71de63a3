package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

const testTenant = "docsync:main:abcd1234"

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// testDocument builds a document with all fields populated.
func testDocument(id, path string) *domain.Document {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Document{
		ID:         id,
		TenantKey:  testTenant,
		Path:       path,
		Title:      "Title " + id,
		DocType:    "note",
		Promotion:  domain.PromotionStandard,
		Content:    "# Title\n\nBody for " + id + ".",
		Embedding:  []float32{0.1, -0.5, 0.9},
		ModifiedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// testChunkID builds a deterministic chunk ID for assertions.
func testChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s:%d", documentID, position)
}

// testChunks builds n chunks for a document.
func testChunks(documentID string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:          testChunkID(documentID, i),
			DocumentID:  documentID,
			Index:       i,
			HeaderPath:  "# Title",
			StartOffset: i * 10,
			EndOffset:   i*10 + 8,
			Content:     "chunk body",
			Embedding:   []float32{float32(i), float32(i) + 0.5},
			Promotion:   domain.PromotionStandard,
		}
	}
	return chunks
}

// ==================== Store Creation Tests ====================

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.Equal(t, filepath.Join(tempDir, "metadata.db"), store.Path())
	assert.FileExists(t, store.Path())
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	doc := testDocument("doc-1", "guides/setup.md")
	require.NoError(t, store.DocumentStore().Upsert(context.Background(), doc))
	require.NoError(t, store.Close())

	// A second open must not re-run migrations or lose data.
	reopened, err := NewStore(tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	retrieved, err := reopened.DocumentStore().GetByID(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "guides/setup.md", retrieved.Path)
}

// ==================== Document Tests ====================

func TestDocumentStore_UpsertAndGetByID(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := testDocument("doc-1", "guides/setup.md")
	require.NoError(t, docs.Upsert(ctx, doc))

	retrieved, err := docs.GetByID(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, retrieved.ID)
	assert.Equal(t, doc.TenantKey, retrieved.TenantKey)
	assert.Equal(t, doc.Path, retrieved.Path)
	assert.Equal(t, doc.Title, retrieved.Title)
	assert.Equal(t, doc.DocType, retrieved.DocType)
	assert.Equal(t, doc.Promotion, retrieved.Promotion)
	assert.Equal(t, doc.Content, retrieved.Content)
	assert.Equal(t, doc.Embedding, retrieved.Embedding)
	assert.True(t, doc.ModifiedAt.Equal(retrieved.ModifiedAt))
	assert.True(t, doc.CreatedAt.Equal(retrieved.CreatedAt))
	assert.True(t, doc.UpdatedAt.Equal(retrieved.UpdatedAt))
}

func TestDocumentStore_Upsert_KeepsSlotIdentity(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	first := testDocument("doc-1", "guides/setup.md")
	require.NoError(t, docs.Upsert(ctx, first))

	// A re-index of the same path arrives with a fresh candidate identity.
	second := testDocument("doc-2", "guides/setup.md")
	second.Title = "Setup Guide v2"
	second.CreatedAt = second.CreatedAt.Add(time.Hour)
	second.UpdatedAt = second.UpdatedAt.Add(time.Hour)
	require.NoError(t, docs.Upsert(ctx, second))

	retrieved, err := docs.GetByTenantAndPath(ctx, testTenant, "guides/setup.md")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", retrieved.ID, "slot keeps its original id")
	assert.True(t, first.CreatedAt.Equal(retrieved.CreatedAt), "slot keeps its original created_at")
	assert.Equal(t, "Setup Guide v2", retrieved.Title)
	assert.True(t, second.UpdatedAt.Equal(retrieved.UpdatedAt))

	// The candidate id was never stored.
	_, err = docs.GetByID(ctx, "doc-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Upsert_SameIDUpdatesInPlace(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := testDocument("doc-1", "guides/setup.md")
	require.NoError(t, docs.Upsert(ctx, doc))

	doc.Content = "# Title\n\nRevised body."
	doc.Promotion = domain.PromotionCritical
	require.NoError(t, docs.Upsert(ctx, doc))

	retrieved, err := docs.GetByID(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nRevised body.", retrieved.Content)
	assert.Equal(t, domain.PromotionCritical, retrieved.Promotion)

	all, err := docs.GetAllForTenant(ctx, testTenant)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDocumentStore_Upsert_NilDocument(t *testing.T) {
	store := setupTestStore(t)

	err := store.DocumentStore().Upsert(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_GetByID_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetByTenantAndPath_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetByTenantAndPath(context.Background(), testTenant, "missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetAllForTenant_FiltersAndSorts(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-b", "b.md")))
	require.NoError(t, docs.Upsert(ctx, testDocument("doc-a", "a.md")))

	other := testDocument("doc-x", "a.md")
	other.TenantKey = "docsync:feature:ffff0000"
	require.NoError(t, docs.Upsert(ctx, other))

	all, err := docs.GetAllForTenant(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a.md", all[0].Path)
	assert.Equal(t, "b.md", all[1].Path)
}

func TestDocumentStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))
	require.NoError(t, docs.Delete(ctx, "doc-1"))

	_, err := docs.GetByID(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Delete_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.DocumentStore().Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Delete_CascadesChunks(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))
	require.NoError(t, docs.UpsertChunks(ctx, testChunks("doc-1", 3)))

	require.NoError(t, docs.Delete(ctx, "doc-1"))

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

// ==================== Chunk Tests ====================

func TestDocumentStore_UpsertAndGetChunks(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))

	chunks := testChunks("doc-1", 3)
	// Out-of-order insert must not affect read order.
	chunks[0], chunks[2] = chunks[2], chunks[0]
	require.NoError(t, docs.UpsertChunks(ctx, chunks))

	retrieved, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, retrieved, 3)
	for i, chunk := range retrieved {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, testChunkID("doc-1", i), chunk.ID)
	}
	assert.Equal(t, "# Title", retrieved[0].HeaderPath)
	assert.Equal(t, []float32{0, 0.5}, retrieved[0].Embedding)
	assert.Equal(t, 0, retrieved[0].StartOffset)
	assert.Equal(t, 8, retrieved[0].EndOffset)
}

func TestDocumentStore_UpsertChunks_ReplacesPreviousSet(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))
	require.NoError(t, docs.UpsertChunks(ctx, testChunks("doc-1", 4)))

	// The document shrank on re-index.
	require.NoError(t, docs.UpsertChunks(ctx, testChunks("doc-1", 2)))

	retrieved, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, retrieved, 2)

	_, err = docs.GetChunk(ctx, testChunkID("doc-1", 3))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_UpsertChunks_EmptySetIsNoOp(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))
	require.NoError(t, docs.UpsertChunks(ctx, testChunks("doc-1", 2)))

	require.NoError(t, docs.UpsertChunks(ctx, nil))

	retrieved, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, retrieved, 2)
}

func TestDocumentStore_GetChunk(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))
	require.NoError(t, docs.UpsertChunks(ctx, testChunks("doc-1", 2)))

	chunk, err := docs.GetChunk(ctx, testChunkID("doc-1", 1))
	require.NoError(t, err)
	assert.Equal(t, "doc-1", chunk.DocumentID)
	assert.Equal(t, 1, chunk.Index)
	assert.Equal(t, "chunk body", chunk.Content)
}

func TestDocumentStore_GetChunk_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetChunk(context.Background(), "missing:0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetChunks_EmptyWithoutError(t *testing.T) {
	store := setupTestStore(t)

	chunks, err := store.DocumentStore().GetChunks(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_DeleteChunks(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))
	require.NoError(t, docs.UpsertChunks(ctx, testChunks("doc-1", 2)))

	require.NoError(t, docs.DeleteChunks(ctx, "doc-1"))

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_ChunkEmbeddingRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))

	chunks := testChunks("doc-1", 1)
	chunks[0].Embedding = []float32{0.000001, -1.5, 3.14159, 0}
	require.NoError(t, docs.UpsertChunks(ctx, chunks))

	chunk, err := docs.GetChunk(ctx, testChunkID("doc-1", 0))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.000001, -1.5, 3.14159, 0}, chunk.Embedding)
}

func TestDocumentStore_ChunkWithoutEmbedding(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))

	chunks := testChunks("doc-1", 1)
	chunks[0].Embedding = nil
	require.NoError(t, docs.UpsertChunks(ctx, chunks))

	chunk, err := docs.GetChunk(ctx, testChunkID("doc-1", 0))
	require.NoError(t, err)
	assert.Nil(t, chunk.Embedding)
}

// ==================== Promotion Tests ====================

func TestDocumentStore_UpdatePromotionLevel(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Upsert(ctx, testDocument("doc-1", "a.md")))
	require.NoError(t, docs.UpsertChunks(ctx, testChunks("doc-1", 2)))

	require.NoError(t, docs.UpdatePromotionLevel(ctx, "doc-1", domain.PromotionCritical))

	doc, err := docs.GetByID(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionCritical, doc.Promotion)

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	for _, chunk := range chunks {
		assert.Equal(t, domain.PromotionCritical, chunk.Promotion)
	}
}

func TestDocumentStore_UpdatePromotionLevel_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.DocumentStore().UpdatePromotionLevel(context.Background(), "missing", domain.PromotionCritical)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Embedding Codec Tests ====================

func TestFloat32SliceRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		floats []float32
	}{
		{name: "nil", floats: nil},
		{name: "empty", floats: []float32{}},
		{name: "values", floats: []float32{0, 1, -1, 0.5, 1e-9, 3.4e38}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := float32SliceToBytes(tt.floats)
			decoded := bytesToFloat32Slice(data)
			if len(tt.floats) == 0 {
				assert.Nil(t, decoded)
				return
			}
			assert.Equal(t, tt.floats, decoded)
		})
	}
}

// ==================== Error Mapping Tests ====================

func TestDocumentStore_ClosedStoreSurfacesErrors(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.DocumentStore().GetByID(context.Background(), "doc-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}
