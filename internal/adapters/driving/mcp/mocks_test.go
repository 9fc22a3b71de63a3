package mcp

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Promote(_ context.Context, _ string, _ domain.PromotionLevel) error {
	return m.err
}

// mockReferenceService is a mock implementation of driving.ReferenceService.
type mockReferenceService struct {
	resolved  []domain.ResolvedReference
	broken    []domain.ResolvedReference
	links     []string
	backlinks []string
	linked    []string
	cycle     []string
	acyclic   bool
	err       error
}

func (m *mockReferenceService) Resolve(_ context.Context, _ string) ([]domain.ResolvedReference, error) {
	return m.resolved, m.err
}

func (m *mockReferenceService) BrokenLinks(_ string) []domain.ResolvedReference {
	return m.broken
}

func (m *mockReferenceService) Links(_ string) []string {
	return m.links
}

func (m *mockReferenceService) Backlinks(_ string) []string {
	return m.backlinks
}

func (m *mockReferenceService) LinkedContext(_ string, _, _ int) []string {
	return m.linked
}

func (m *mockReferenceService) FindCycle(_ string) []string {
	return m.cycle
}

func (m *mockReferenceService) IsAcyclic() bool {
	return m.acyclic
}

// mockSupersessionService is a mock implementation of driving.SupersessionService.
type mockSupersessionService struct {
	chain        []domain.SupersessionEntry
	supersedes   []string
	supersededBy []string
	superseded   bool
	err          error
}

func (m *mockSupersessionService) Chain(_ context.Context, _ string) ([]domain.SupersessionEntry, error) {
	return m.chain, m.err
}

func (m *mockSupersessionService) Supersedes(_ string) []string {
	return m.supersedes
}

func (m *mockSupersessionService) SupersededBy(_ string) []string {
	return m.supersededBy
}

func (m *mockSupersessionService) IsSuperseded(_ string) bool {
	return m.superseded
}

func (m *mockSupersessionService) AdjustScores(results []domain.SearchResult) []domain.SearchResult {
	return results
}

// mockReconcileOrchestrator is a mock implementation of driving.ReconcileOrchestrator.
type mockReconcileOrchestrator struct {
	report    *domain.ReconcileReport
	results   []domain.IndexResult
	planCalls int
	runCalls  int
	err       error
}

func (m *mockReconcileOrchestrator) Plan(_ context.Context) (*domain.ReconcileReport, error) {
	m.planCalls++
	return m.report, m.err
}

func (m *mockReconcileOrchestrator) Apply(_ context.Context, _ *domain.ReconcileReport) ([]domain.IndexResult, error) {
	return m.results, m.err
}

func (m *mockReconcileOrchestrator) Run(_ context.Context) (*domain.ReconcileReport, error) {
	m.runCalls++
	return m.report, m.err
}

func (m *mockReconcileOrchestrator) RunAsync(_ context.Context) bool {
	return true
}
