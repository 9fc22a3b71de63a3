package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// SupersessionService tracks which documents replace which others and
// applies the retrieval penalty for superseded content.
type SupersessionService interface {
	// Chain walks supersession relations from a document back to the
	// chain's origin and forward to its newest member, returning the
	// ordered oldest-to-newest chain.
	Chain(ctx context.Context, path string) ([]domain.SupersessionEntry, error)

	// Supersedes returns the paths the given document declares as
	// superseded.
	Supersedes(path string) []string

	// SupersededBy returns the documents that declare the given path
	// as superseded.
	SupersededBy(path string) []string

	// IsSuperseded reports whether any document supersedes the path.
	IsSuperseded(path string) bool

	// AdjustScores multiplies the score of every superseded result by
	// the supersession penalty and re-sorts descending by score.
	AdjustScores(results []domain.SearchResult) []domain.SearchResult
}
