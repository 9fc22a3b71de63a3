package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockRegistry implements driven.DocTypeRegistry.
type mockRegistry struct {
	types  map[string]domain.DocType
	getErr error
}

func newMockRegistry(types ...domain.DocType) *mockRegistry {
	m := &mockRegistry{types: make(map[string]domain.DocType)}
	for _, dt := range types {
		m.types[strings.ToLower(dt.Name)] = dt
	}
	return m
}

func (m *mockRegistry) Get(name string) (*domain.DocType, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	dt, ok := m.types[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	return &dt, nil
}

func (m *mockRegistry) List() ([]domain.DocType, error) {
	var out []domain.DocType
	for _, dt := range m.types {
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRegistry) Register(docType domain.DocType) error {
	key := strings.ToLower(docType.Name)
	if _, ok := m.types[key]; ok {
		return domain.ErrAlreadyExists
	}
	m.types[key] = docType
	return nil
}

// mockPipeline implements driven.PostProcessorPipeline with one chunk
// per document body.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	content := strings.TrimSpace(doc.Content)
	if content == "" {
		return nil, nil
	}
	return []domain.Chunk{{
		ID:         doc.ID + ":0",
		DocumentID: doc.ID,
		Index:      0,
		Content:    content,
		EndOffset:  len(doc.Content),
		Promotion:  doc.Promotion,
	}}, nil
}

// mockEmbedder implements driven.EmbeddingService with a fixed vector.
type mockEmbedder struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	batches   [][]string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{embedding: []float32{0.1, 0.2, 0.3}}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.mu.Lock()
	m.batches = append(m.batches, []string{text})
	m.mu.Unlock()
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.mu.Lock()
	m.batches = append(m.batches, texts)
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.embedding
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return len(m.embedding) }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex, recording mutations.
type mockVectorIndex struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	hits      []driven.VectorHit
	deleted   []string
	addErr    error
	deleteErr error
	searchErr error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{vectors: make(map[string][]float32)}
}

func (m *mockVectorIndex) Add(_ context.Context, chunkID string, embedding []float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[chunkID] = embedding
	return nil
}

func (m *mockVectorIndex) AddBatch(_ context.Context, chunkIDs []string, embeddings [][]float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range chunkIDs {
		m.vectors[id] = embeddings[i]
	}
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, chunkID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vectors, chunkID)
	m.deleted = append(m.deleted, chunkID)
	return nil
}

func (m *mockVectorIndex) DeleteBatch(_ context.Context, chunkIDs []string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range chunkIDs {
		delete(m.vectors, id)
		m.deleted = append(m.deleted, id)
	}
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Close() error { return nil }

func (m *mockVectorIndex) stored(chunkID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.vectors[chunkID]
	return ok
}

// recordingHooks implements driven.LifecycleHooks with scripted decisions.
type recordingHooks struct {
	mu             sync.Mutex
	indexDecision  driven.HookDecision
	indexErr       error
	removeDecision driven.HookDecision
	removeErr      error

	beforeIndexed  []string
	afterIndexed   []domain.IndexResult
	beforeRemoved  []string
	afterRemoved   []domain.RemoveResult
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{
		indexDecision:  driven.Accept(),
		removeDecision: driven.Accept(),
	}
}

func (h *recordingHooks) BeforeIndex(_ context.Context, doc *domain.Document) (driven.HookDecision, error) {
	h.mu.Lock()
	h.beforeIndexed = append(h.beforeIndexed, doc.Path)
	h.mu.Unlock()
	return h.indexDecision, h.indexErr
}

func (h *recordingHooks) AfterIndex(_ context.Context, result *domain.IndexResult) {
	h.mu.Lock()
	h.afterIndexed = append(h.afterIndexed, *result)
	h.mu.Unlock()
}

func (h *recordingHooks) BeforeRemove(_ context.Context, doc *domain.Document) (driven.HookDecision, error) {
	h.mu.Lock()
	h.beforeRemoved = append(h.beforeRemoved, doc.Path)
	h.mu.Unlock()
	return h.removeDecision, h.removeErr
}

func (h *recordingHooks) AfterRemove(_ context.Context, result *domain.RemoveResult) {
	h.mu.Lock()
	h.afterRemoved = append(h.afterRemoved, *result)
	h.mu.Unlock()
}

// mockFileWatcher implements driven.FileWatcher with test-fed channels.
type mockFileWatcher struct {
	events   chan domain.FileChange
	errs     chan error
	mu       sync.Mutex
	watched  []string
	watchErr error
	closed   bool
}

func newMockFileWatcher() *mockFileWatcher {
	return &mockFileWatcher{
		events: make(chan domain.FileChange, 16),
		errs:   make(chan error, 1),
	}
}

func (m *mockFileWatcher) Watch(root string) error {
	if m.watchErr != nil {
		return m.watchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watched = append(m.watched, root)
	return nil
}

func (m *mockFileWatcher) Events() <-chan domain.FileChange { return m.events }

func (m *mockFileWatcher) Errors() <-chan error { return m.errs }

func (m *mockFileWatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.events)
	return nil
}

// stubIndexService implements driving.IndexService by recording paths.
type stubIndexService struct {
	mu        sync.Mutex
	indexed   []string
	removed   []string
	indexErr  error
	removeErr error
}

func (s *stubIndexService) IndexFile(_ context.Context, path string) (*domain.IndexResult, error) {
	if s.indexErr != nil {
		return nil, s.indexErr
	}
	s.mu.Lock()
	s.indexed = append(s.indexed, path)
	s.mu.Unlock()
	return &domain.IndexResult{Path: path, Success: true, ChunkCount: 1}, nil
}

func (s *stubIndexService) RemoveFile(_ context.Context, path string) (*domain.RemoveResult, error) {
	if s.removeErr != nil {
		return nil, s.removeErr
	}
	s.mu.Lock()
	s.removed = append(s.removed, path)
	s.mu.Unlock()
	return &domain.RemoveResult{Path: path, Success: true}, nil
}

func (s *stubIndexService) ReindexAll(_ context.Context) ([]domain.IndexResult, error) {
	return nil, nil
}

func (s *stubIndexService) indexedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.indexed))
	copy(out, s.indexed)
	return out
}

func (s *stubIndexService) removedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.removed))
	copy(out, s.removed)
	return out
}
