// Package domain defines the core business entities for docsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an indexed document keyed by (tenant, path)
//   - Chunk: a searchable unit within a document
//   - FileChange: a coalesced filesystem change
//   - Reference: a cross-document reference extracted from text
//   - TenantKey: the (project, branch, path hash) isolation key
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
