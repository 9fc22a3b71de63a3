package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query             string `json:"query" jsonschema:"the search query to find documents"`
	Limit             int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	ExcludeSuperseded bool   `json:"exclude_superseded,omitempty" jsonschema:"drop superseded documents from the results"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Path       string  `json:"path"`
	Title      string  `json:"title"`
	HeaderPath string  `json:"header_path,omitempty"`
	Score      float64 `json:"score"`
	Superseded bool    `json:"superseded,omitempty"`
	Content    string  `json:"content,omitempty"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	Path string `json:"path" jsonschema:"root-relative path of the document"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	Path         string   `json:"path"`
	Title        string   `json:"title"`
	DocType      string   `json:"doc_type,omitempty"`
	Promotion    string   `json:"promotion"`
	ChunkCount   int      `json:"chunk_count"`
	Superseded   bool     `json:"superseded"`
	SupersededBy []string `json:"superseded_by,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	Content      string   `json:"content,omitempty"`
}

// BacklinksInput is the input schema for the list_backlinks tool.
type BacklinksInput struct {
	Path string `json:"path" jsonschema:"root-relative path of the document"`
}

// BacklinksOutput is the output schema for the list_backlinks tool.
type BacklinksOutput struct {
	Backlinks []string           `json:"backlinks"`
	Outgoing  []string           `json:"outgoing"`
	Broken    []BrokenLinkOutput `json:"broken,omitempty"`
}

// BrokenLinkOutput describes one unresolved reference.
type BrokenLinkOutput struct {
	Target string `json:"target"`
	Line   int    `json:"line"`
	Error  string `json:"error,omitempty"`
}

// ChainInput is the input schema for the get_supersession_chain tool.
type ChainInput struct {
	Path string `json:"path" jsonschema:"root-relative path of the document"`
}

// ChainOutput is the output schema for the get_supersession_chain tool.
type ChainOutput struct {
	Entries []ChainEntryOutput `json:"entries"`
	Current string             `json:"current,omitempty"`
}

// ChainEntryOutput is one chain element, oldest first.
type ChainEntryOutput struct {
	Path       string `json:"path"`
	Title      string `json:"title,omitempty"`
	ModifiedAt string `json:"modified_at"`
}

// ReconcileInput is the input schema for the reconcile tool.
type ReconcileInput struct {
	Apply bool `json:"apply,omitempty" jsonschema:"execute the prescribed actions instead of only reporting them"`
}

// ReconcileOutput is the output schema for the reconcile tool.
type ReconcileOutput struct {
	ScannedFiles int                     `json:"scanned_files"`
	New          int                     `json:"new"`
	Modified     int                     `json:"modified"`
	Deleted      int                     `json:"deleted"`
	Actions      []ReconcileActionOutput `json:"actions"`
	Applied      bool                    `json:"applied"`
}

// ReconcileActionOutput is one prescribed drift repair.
type ReconcileActionOutput struct {
	Op   string `json:"op"`
	Path string `json:"path"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get an indexed document's metadata and content",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_backlinks",
		Description: "List the documents linking to and from a document",
	}, s.handleListBacklinks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_supersession_chain",
		Description: "Get the supersession chain a document belongs to, oldest first",
	}, s.handleGetSupersessionChain)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reconcile",
		Description: "Detect drift between the filesystem and the index, optionally repairing it",
	}, s.handleReconcile)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{
		Limit:             limit,
		ExcludeSuperseded: input.ExcludeSuperseded,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			Path:       results[i].Document.Path,
			Title:      results[i].Document.Title,
			HeaderPath: results[i].Chunk.HeaderPath,
			Score:      results[i].Score,
			Superseded: results[i].Superseded,
			Content:    results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	if s.ports.Documents == nil {
		return nil, GetDocumentOutput{}, errors.New("document service not configured")
	}

	details, err := s.ports.Documents.GetDetails(ctx, input.Path)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	content, err := s.ports.Documents.GetContent(ctx, input.Path)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	output := GetDocumentOutput{
		Path:         details.Path,
		Title:        details.Title,
		DocType:      details.DocType,
		Promotion:    string(details.Promotion),
		ChunkCount:   details.ChunkCount,
		Superseded:   details.Superseded,
		SupersededBy: details.SupersededBy,
		CreatedAt:    details.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    details.UpdatedAt.Format(time.RFC3339),
		Content:      content,
	}
	return nil, output, nil
}

// handleListBacklinks handles the list_backlinks tool invocation.
func (s *Server) handleListBacklinks(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input BacklinksInput,
) (*mcp.CallToolResult, BacklinksOutput, error) {
	if s.ports.References == nil {
		return nil, BacklinksOutput{}, errors.New("reference service not configured")
	}

	output := BacklinksOutput{
		Backlinks: s.ports.References.Backlinks(input.Path),
		Outgoing:  s.ports.References.Links(input.Path),
	}
	for _, ref := range s.ports.References.BrokenLinks(input.Path) {
		output.Broken = append(output.Broken, BrokenLinkOutput{
			Target: ref.Target,
			Line:   ref.Line,
			Error:  ref.Error,
		})
	}
	return nil, output, nil
}

// handleGetSupersessionChain handles the get_supersession_chain tool invocation.
func (s *Server) handleGetSupersessionChain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChainInput,
) (*mcp.CallToolResult, ChainOutput, error) {
	if s.ports.Supersession == nil {
		return nil, ChainOutput{}, errors.New("supersession service not configured")
	}

	entries, err := s.ports.Supersession.Chain(ctx, input.Path)
	if err != nil {
		return nil, ChainOutput{}, err
	}

	output := ChainOutput{
		Entries: make([]ChainEntryOutput, len(entries)),
	}
	for i, entry := range entries {
		output.Entries[i] = ChainEntryOutput{
			Path:       entry.Path,
			Title:      entry.Title,
			ModifiedAt: entry.ModifiedAt.Format(time.RFC3339),
		}
	}
	if len(entries) > 0 {
		output.Current = entries[len(entries)-1].Path
	}
	return nil, output, nil
}

// handleReconcile handles the reconcile tool invocation.
func (s *Server) handleReconcile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReconcileInput,
) (*mcp.CallToolResult, ReconcileOutput, error) {
	if s.ports.Reconcile == nil {
		return nil, ReconcileOutput{}, errors.New("reconcile service not configured")
	}

	var report *domain.ReconcileReport
	var err error
	if input.Apply {
		report, err = s.ports.Reconcile.Run(ctx)
	} else {
		report, err = s.ports.Reconcile.Plan(ctx)
	}
	if err != nil {
		return nil, ReconcileOutput{}, err
	}

	output := ReconcileOutput{
		ScannedFiles: report.ScannedFiles,
		New:          report.NewCount,
		Modified:     report.ModifiedCount,
		Deleted:      report.DeletedCount,
		Actions:      make([]ReconcileActionOutput, len(report.Actions)),
		Applied:      input.Apply,
	}
	for i, action := range report.Actions {
		output.Actions[i] = ReconcileActionOutput{
			Op:   string(action.Op),
			Path: action.Path,
		}
	}
	return nil, output, nil
}
