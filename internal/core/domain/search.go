package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// ExcludeSuperseded drops superseded documents from the result set
	// entirely. By default they stay, demoted by the supersession
	// penalty.
	ExcludeSuperseded bool
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Chunk is the specific chunk that matched.
	Chunk Chunk

	// Score is the relevance score after any adjustment.
	Score float64

	// Superseded is true when the document is currently superseded
	// by another; its score carries the supersession penalty.
	Superseded bool
}
