package mcp

import (
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides semantic search.
	Search driving.SearchService

	// Documents answers document queries.
	Documents driving.DocumentService

	// References answers link graph queries.
	References driving.ReferenceService

	// Supersession answers chain queries.
	Supersession driving.SupersessionService

	// Reconcile plans and applies drift repair.
	Reconcile driving.ReconcileOrchestrator
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// The remaining ports are optional; their tools report
	// "not configured" when invoked.
	return nil
}
