package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
	"github.com/custodia-labs/docsync/internal/parser"
)

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// Indexer runs the parse, validate, chunk, embed, store pipeline for
// individual files. Every write is an idempotent upsert or replace, so
// a cancelled or crashed batch leaves nothing reconciliation cannot heal.
type Indexer struct {
	root      string
	tenantKey string

	docStore driven.DocumentStore
	registry driven.DocTypeRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	vectors  driven.VectorIndex
	hooks    driven.LifecycleHooks

	resolver     *ReferenceService
	supersession *SupersessionService
}

// NewIndexer creates an indexing pipeline for documents under root.
// embedder, vectors, and hooks are optional and may be nil.
func NewIndexer(
	root string,
	tenantKey string,
	docStore driven.DocumentStore,
	registry driven.DocTypeRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vectors driven.VectorIndex,
	hooks driven.LifecycleHooks,
	resolver *ReferenceService,
	supersession *SupersessionService,
) *Indexer {
	return &Indexer{
		root:         root,
		tenantKey:    tenantKey,
		docStore:     docStore,
		registry:     registry,
		pipeline:     pipeline,
		embedder:     embedder,
		vectors:      vectors,
		hooks:        hooks,
		resolver:     resolver,
		supersession: supersession,
	}
}

// IndexFile parses, chunks, embeds, and stores one file. Input and
// collaborator errors are recorded on the result rather than returned;
// the returned error is reserved for invalid path arguments,
// cancellation, and hook vetoes.
func (s *Indexer) IndexFile(ctx context.Context, p string) (*domain.IndexResult, error) {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &domain.IndexResult{Path: rel, Success: true}
	defer func() { result.Duration = time.Since(start) }()

	logger.Debug("Indexing %s", rel)

	// 1. READ
	raw, err := os.ReadFile(absPath(s.root, rel))
	if err != nil {
		result.Failed(fmt.Sprintf("read file: %v", err))
		return result, nil
	}
	modifiedAt := time.Now()
	if info, err := os.Stat(absPath(s.root, rel)); err == nil {
		modifiedAt = info.ModTime()
	}

	// 2. PARSE
	outcome := parser.Parse(string(raw))
	if outcome.HeaderError != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("malformed header: %v", outcome.HeaderError))
	}

	// 3. VALIDATE
	typeName := parser.TypeName(outcome.Header)
	var docType *domain.DocType
	if typeName != "" {
		docType, err = s.registry.Get(typeName)
		if err != nil {
			result.Failed(fmt.Sprintf("look up document type: %v", err))
			return result, nil
		}
	}
	validation := parser.Validate(outcome.Header, docType)
	result.Warnings = append(result.Warnings, validation.Warnings...)
	if !validation.Valid {
		for _, fieldErr := range validation.Errors {
			result.Failed(fmt.Sprintf("field %q: %s", fieldErr.Field, fieldErr.Message))
		}
		logger.Warn("Validation failed for %s: %d errors", rel, len(validation.Errors))
		return result, nil
	}

	// 4. BUILD DOCUMENT
	existing, err := s.docStore.GetByTenantAndPath(ctx, s.tenantKey, rel)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		result.Failed(fmt.Sprintf("load existing document: %v", err))
		return result, nil
	}

	now := time.Now()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		TenantKey:  s.tenantKey,
		Path:       rel,
		Title:      parser.DeriveTitle(outcome.Header, outcome.Body),
		DocType:    typeName,
		Promotion:  promotionFor(outcome.Header, existing),
		Content:    outcome.Body,
		ModifiedAt: modifiedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing != nil {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	}
	result.DocumentID = doc.ID

	// 5. HOOK: BEFORE INDEX
	if s.hooks != nil {
		decision, err := s.hooks.BeforeIndex(ctx, doc)
		if err != nil {
			result.Failed(fmt.Sprintf("before-index hook: %v", err))
			return result, nil
		}
		result.Warnings = append(result.Warnings, decision.Warnings...)
		if !decision.Allow {
			result.Failed(fmt.Sprintf("vetoed: %s", decision.Reason))
			return result, fmt.Errorf("%w: %s", domain.ErrVetoed, decision.Reason)
		}
	}

	// 6. CHUNK
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		result.Failed(fmt.Sprintf("chunk document: %v", err))
		return result, nil
	}

	// 7. EMBED
	if s.embedder != nil && len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = embeddingText(chunks[i])
		}
		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			result.Failed(fmt.Sprintf("generate embeddings: %v", err))
			return result, nil
		}
		if len(embeddings) != len(chunks) {
			result.Failed(fmt.Sprintf("generate embeddings: got %d vectors for %d chunks", len(embeddings), len(chunks)))
			return result, nil
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
	}

	// 8. STORE
	var previous []domain.Chunk
	if s.vectors != nil && existing != nil {
		previous, err = s.docStore.GetChunks(ctx, doc.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			result.Failed(fmt.Sprintf("load previous chunks: %v", err))
			return result, nil
		}
	}
	if err := s.docStore.Upsert(ctx, doc); err != nil {
		result.Failed(fmt.Sprintf("store document: %v", err))
		return result, nil
	}
	if err := s.docStore.DeleteChunks(ctx, doc.ID); err != nil {
		result.Failed(fmt.Sprintf("delete previous chunks: %v", err))
		return result, nil
	}
	if err := s.docStore.UpsertChunks(ctx, chunks); err != nil {
		result.Failed(fmt.Sprintf("store chunks: %v", err))
		return result, nil
	}
	result.ChunkCount = len(chunks)

	// 9. VECTOR INDEX
	// Stale vectors or a failed add degrade search, never indexing.
	if s.vectors != nil {
		if len(previous) > 0 {
			if err := s.vectors.DeleteBatch(ctx, chunkIDs(previous)); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("remove stale vectors: %v", err))
			}
		}
		if embedded := embeddedChunks(chunks); len(embedded) > 0 {
			ids := make([]string, len(embedded))
			vecs := make([][]float32, len(embedded))
			for i, c := range embedded {
				ids[i] = c.ID
				vecs[i] = c.Embedding
			}
			if err := s.vectors.AddBatch(ctx, ids, vecs); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("add vectors: %v", err))
			}
		}
	}

	// 10. RESOLVE REFERENCES
	resolved, err := s.resolver.ResolveContent(ctx, rel, doc.Content)
	if err != nil {
		return result, err
	}
	if broken := brokenOf(resolved); len(broken) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d broken link(s)", len(broken)))
	}

	// 11. SUPERSESSION
	unresolved, err := s.supersession.Apply(ctx, rel, parser.SupersededTargets(outcome.Header))
	if err != nil {
		result.Failed(fmt.Sprintf("apply supersession: %v", err))
		return result, nil
	}
	for _, target := range unresolved {
		result.Warnings = append(result.Warnings, fmt.Sprintf("supersession target not found: %s", target))
	}

	// 12. HOOK: AFTER INDEX
	if s.hooks != nil {
		s.hooks.AfterIndex(ctx, result)
	}

	logger.Info("Indexed %s: %d chunks", rel, result.ChunkCount)
	return result, nil
}

// RemoveFile deletes a file's document, chunks, vectors, references,
// and supersession entries. Removing a path with no stored document
// succeeds with a warning.
func (s *Indexer) RemoveFile(ctx context.Context, p string) (*domain.RemoveResult, error) {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil, err
	}

	result := &domain.RemoveResult{Path: rel, Success: true}

	doc, err := s.docStore.GetByTenantAndPath(ctx, s.tenantKey, rel)
	if errors.Is(err, domain.ErrNotFound) {
		result.Warnings = append(result.Warnings, "no stored document")
		return result, nil
	}
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("load document: %v", err))
		return result, nil
	}

	if s.hooks != nil {
		decision, err := s.hooks.BeforeRemove(ctx, doc)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("before-remove hook: %v", err))
			return result, nil
		}
		result.Warnings = append(result.Warnings, decision.Warnings...)
		if !decision.Allow {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("vetoed: %s", decision.Reason))
			return result, fmt.Errorf("%w: %s", domain.ErrVetoed, decision.Reason)
		}
	}

	if s.vectors != nil {
		chunks, err := s.docStore.GetChunks(ctx, doc.ID)
		if err == nil && len(chunks) > 0 {
			if err := s.vectors.DeleteBatch(ctx, chunkIDs(chunks)); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("remove vectors: %v", err))
			}
		}
	}

	if err := s.docStore.Delete(ctx, doc.ID); err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("delete document: %v", err))
		return result, nil
	}

	s.resolver.RemoveDocument(rel)
	s.supersession.Remove(rel)

	if s.hooks != nil {
		s.hooks.AfterRemove(ctx, result)
	}

	logger.Info("Removed %s", rel)
	return result, nil
}

// ReindexAll re-runs the pipeline for every stored document.
// Cancellation is honoured between documents; results already produced
// are returned alongside the cancellation error.
func (s *Indexer) ReindexAll(ctx context.Context) ([]domain.IndexResult, error) {
	docs, err := s.docStore.GetAllForTenant(ctx, s.tenantKey)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	logger.Section("Reindex All")
	logger.Info("Reindexing %d documents", len(docs))

	results := make([]domain.IndexResult, 0, len(docs))
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := s.IndexFile(ctx, docs[i].Path)
		if result != nil {
			results = append(results, *result)
		}
		if err != nil && !errors.Is(err, domain.ErrVetoed) {
			return results, err
		}
	}

	return results, nil
}

// promotionFor picks the document's promotion level: a declared header
// field wins, otherwise the stored level survives re-indexing.
func promotionFor(header map[string]any, existing *domain.Document) domain.PromotionLevel {
	if declared := parser.HeaderString(header, "promotion"); declared != "" {
		return domain.ParsePromotionLevel(declared)
	}
	if existing != nil && existing.Promotion.IsValid() {
		return existing.Promotion
	}
	return domain.PromotionStandard
}

// embeddingText prefixes chunk content with its heading trail so the
// vector carries document structure.
func embeddingText(c domain.Chunk) string {
	if c.HeaderPath == "" {
		return c.Content
	}
	return c.HeaderPath + "\n\n" + c.Content
}

// chunkIDs projects chunks onto their IDs.
func chunkIDs(chunks []domain.Chunk) []string {
	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID
	}
	return ids
}

// embeddedChunks filters the chunks that carry a vector.
func embeddedChunks(chunks []domain.Chunk) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) > 0 {
			out = append(out, c)
		}
	}
	return out
}
