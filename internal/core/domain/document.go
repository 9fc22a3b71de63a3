package domain

import "time"

// Document represents an indexed document.
// The repository holds at most one record per (TenantKey, Path).
type Document struct {
	// ID is the unique identifier for the document.
	// It is stable across edits of the same file.
	ID string

	// TenantKey isolates the working copy this document belongs to.
	TenantKey string

	// Path is the file path relative to the watched root.
	Path string

	// Title is the human-readable title.
	Title string

	// DocType is the declared document type from the header, if any.
	DocType string

	// Promotion is the visibility tier for retrieval prioritisation.
	Promotion PromotionLevel

	// Content is the full body text (header block excluded).
	Content string

	// Embedding is an optional document-level vector.
	Embedding []float32

	// ModifiedAt is the file's last-write time at index time.
	ModifiedAt time.Time

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-indexed.
	UpdatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// Chunks are fully replaced on every re-index of their parent.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the 0-based ordinal position within the document.
	Index int

	// HeaderPath labels the heading hierarchy governing the chunk,
	// e.g. "# Setup > ## Install".
	HeaderPath string

	// StartOffset and EndOffset are character offsets into the body,
	// end exclusive. A merge pass widens them to span folded chunks.
	StartOffset int
	EndOffset   int

	// Content is the trimmed text content of this chunk.
	Content string

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Promotion mirrors the parent document's level at last index time.
	Promotion PromotionLevel
}
