package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// --- Test helpers ---

type searchFixture struct {
	store        *memory.DocumentStore
	vectors      *mockVectorIndex
	embedder     *mockEmbedder
	supersession *SupersessionService
	svc          *SearchService
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	f := &searchFixture{
		store:    memory.NewDocumentStore(),
		vectors:  newMockVectorIndex(),
		embedder: newMockEmbedder(),
	}
	f.supersession = NewSupersessionService(testTenant, f.store, memory.NewEventRecorder())
	f.svc = NewSearchService(f.store, f.vectors, f.embedder, f.supersession)
	return f
}

// seedSearchable stores a document with a single chunk whose ID is
// "<id>:0" so vector hits can reference it.
func (f *searchFixture) seedSearchable(t *testing.T, id, rel, content string) {
	t.Helper()
	ctx := context.Background()
	err := f.store.Upsert(ctx, &domain.Document{
		ID:        id,
		TenantKey: testTenant,
		Path:      rel,
		Title:     rel,
		Promotion: domain.PromotionStandard,
	})
	require.NoError(t, err)
	err = f.store.UpsertChunks(ctx, []domain.Chunk{{
		ID:         id + ":0",
		DocumentID: id,
		Index:      0,
		Content:    content,
	}})
	require.NoError(t, err)
}

func (f *searchFixture) hit(id string, similarity float64) driven.VectorHit {
	return driven.VectorHit{ChunkID: id + ":0", Similarity: similarity}
}

// --- Tests ---

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	svc := NewSearchService(memory.NewDocumentStore(), nil, nil, nil)

	results, err := svc.Search(context.Background(), "   ", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_Search_NoEmbedder(t *testing.T) {
	f := newSearchFixture(t)
	svc := NewSearchService(f.store, f.vectors, nil, f.supersession)

	_, err := svc.Search(context.Background(), "setup", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSearchService_Search_NoVectorIndex(t *testing.T) {
	f := newSearchFixture(t)
	svc := NewSearchService(f.store, nil, f.embedder, f.supersession)

	_, err := svc.Search(context.Background(), "setup", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestSearchService_Search_HydratesHits(t *testing.T) {
	f := newSearchFixture(t)
	f.seedSearchable(t, "doc-1", "guides/setup.md", "Install the binary.")
	f.seedSearchable(t, "doc-2", "guides/verify.md", "Run the health check.")
	f.vectors.hits = []driven.VectorHit{f.hit("doc-1", 0.91), f.hit("doc-2", 0.72)}

	results, err := f.svc.Search(context.Background(), "install", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "guides/setup.md", results[0].Document.Path)
	assert.Equal(t, "Install the binary.", results[0].Chunk.Content)
	assert.InDelta(t, 0.91, results[0].Score, 1e-9)
	assert.Equal(t, "guides/verify.md", results[1].Document.Path)
	assert.False(t, results[0].Superseded)
}

func TestSearchService_Search_SkipsStaleVectors(t *testing.T) {
	f := newSearchFixture(t)
	f.seedSearchable(t, "doc-1", "a.md", "Alpha")
	f.vectors.hits = []driven.VectorHit{
		{ChunkID: "vanished:0", Similarity: 0.99},
		f.hit("doc-1", 0.8),
	}

	results, err := f.svc.Search(context.Background(), "alpha", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.md", results[0].Document.Path)
}

func TestSearchService_Search_SupersededPenalisedByDefault(t *testing.T) {
	f := newSearchFixture(t)
	f.seedSearchable(t, "doc-old", "old.md", "Old guidance")
	f.seedSearchable(t, "doc-new", "new.md", "New guidance")
	_, err := f.supersession.Apply(context.Background(), "new.md", []string{"old.md"})
	require.NoError(t, err)
	f.vectors.hits = []driven.VectorHit{f.hit("doc-old", 0.95), f.hit("doc-new", 0.7)}

	results, err := f.svc.Search(context.Background(), "guidance", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)

	// The penalty halves the superseded score, re-ranking it below the
	// unsuperseded hit.
	assert.Equal(t, "new.md", results[0].Document.Path)
	assert.InDelta(t, 0.7, results[0].Score, 1e-9)
	assert.Equal(t, "old.md", results[1].Document.Path)
	assert.InDelta(t, 0.475, results[1].Score, 1e-9)
	assert.True(t, results[1].Superseded)
}

func TestSearchService_Search_ExcludeSuperseded(t *testing.T) {
	f := newSearchFixture(t)
	f.seedSearchable(t, "doc-old", "old.md", "Old guidance")
	f.seedSearchable(t, "doc-new", "new.md", "New guidance")
	_, err := f.supersession.Apply(context.Background(), "new.md", []string{"old.md"})
	require.NoError(t, err)
	f.vectors.hits = []driven.VectorHit{f.hit("doc-old", 0.95), f.hit("doc-new", 0.7)}

	results, err := f.svc.Search(context.Background(), "guidance",
		domain.SearchOptions{ExcludeSuperseded: true})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new.md", results[0].Document.Path)
}

func TestSearchService_Search_LimitApplied(t *testing.T) {
	f := newSearchFixture(t)
	f.seedSearchable(t, "doc-1", "a.md", "Alpha")
	f.seedSearchable(t, "doc-2", "b.md", "Beta")
	f.seedSearchable(t, "doc-3", "c.md", "Gamma")
	f.vectors.hits = []driven.VectorHit{
		f.hit("doc-1", 0.9), f.hit("doc-2", 0.8), f.hit("doc-3", 0.7),
	}

	results, err := f.svc.Search(context.Background(), "greek", domain.SearchOptions{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchService_Search_EmbedderError(t *testing.T) {
	f := newSearchFixture(t)
	f.embedder.embedErr = errors.New("model offline")

	_, err := f.svc.Search(context.Background(), "setup", domain.SearchOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestSearchService_Search_VectorIndexError(t *testing.T) {
	f := newSearchFixture(t)
	f.vectors.searchErr = errors.New("collection missing")

	_, err := f.svc.Search(context.Background(), "setup", domain.SearchOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector search")
}
