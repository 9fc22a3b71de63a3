package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// ReferenceService resolves cross-references and answers link graph
// queries. Graph queries are served from memory and never block on I/O.
type ReferenceService interface {
	// Resolve extracts and resolves all references in a document,
	// updating the link graph and the broken-link set. Results are
	// cached by content hash; a cache hit skips recomputation.
	Resolve(ctx context.Context, path string) ([]domain.ResolvedReference, error)

	// BrokenLinks returns the unresolved non-external references
	// recorded for a document on its last resolution pass.
	BrokenLinks(path string) []domain.ResolvedReference

	// Links returns the resolved outgoing targets of a document.
	Links(path string) []string

	// Backlinks returns the documents whose resolved references point
	// at the given path.
	Backlinks(path string) []string

	// LinkedContext returns documents reachable from path within
	// maxHops link-graph edges, capped at maxResults entries.
	LinkedContext(path string, maxHops, maxResults int) []string

	// FindCycle returns the vertices forming a reference cycle
	// reachable from path, or nil when none exists. A self-loop is a
	// one-vertex cycle.
	FindCycle(path string) []string

	// IsAcyclic reports whether the whole link graph is cycle-free.
	IsAcyclic() bool
}
