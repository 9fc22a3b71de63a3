package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// ResultActionService provides OS-level actions on search results,
// driven by the search command's --open and --copy flags.
type ResultActionService interface {
	// CopyToClipboard copies the result's content to the system clipboard.
	CopyToClipboard(ctx context.Context, result *domain.SearchResult) error

	// OpenDocument opens the result's document in the default application.
	OpenDocument(ctx context.Context, result *domain.SearchResult) error
}
