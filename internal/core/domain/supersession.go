package domain

import "time"

// SupersessionPenalty is the multiplier applied to the relevance score of
// superseded documents during retrieval.
const SupersessionPenalty = 0.5

// SupersessionEntry is one element of a supersession chain,
// ordered oldest to newest.
type SupersessionEntry struct {
	// Path is the root-relative document path.
	Path string

	// Title is the document title at lookup time.
	Title string

	// ModifiedAt is the document's last-write time.
	ModifiedAt time.Time
}

// SupersededEvent notifies that a document was superseded by another.
type SupersededEvent struct {
	// TenantKey identifies the working copy.
	TenantKey string

	// Path is the superseded document.
	Path string

	// SupersededBy is the superseding document.
	SupersededBy string
}

// PromotionChangedEvent notifies that a document's promotion level changed.
type PromotionChangedEvent struct {
	// TenantKey identifies the working copy.
	TenantKey string

	// Path is the affected document.
	Path string

	// DocumentID is the affected document's identity.
	DocumentID string

	// Before and After are the promotion levels around the change.
	Before PromotionLevel
	After  PromotionLevel
}
