// Package headerpath labels chunks with the markdown heading hierarchy in
// effect at their start offset, e.g. "# Setup > ## Install".
package headerpath

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// Processor annotates chunks with header paths.
// It implements the PostProcessor interface and must run after the chunker.
type Processor struct {
	md goldmark.Markdown
}

// New creates a new header path processor.
func New() *Processor {
	return &Processor{
		md: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "headerpath"
}

// Process assigns each chunk the heading hierarchy governing its start
// offset. Content and offsets are left untouched; chunks starting before
// the first heading keep an empty header path.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 || doc.Content == "" {
		return chunks, nil
	}

	entries := p.headings([]byte(doc.Content))
	if len(entries) == 0 {
		return chunks, nil
	}

	for i := range chunks {
		chunks[i].HeaderPath = pathAt(entries, chunks[i].StartOffset)
	}
	return chunks, nil
}

// headingEntry pairs a heading's line start offset with its formatted
// hierarchy path.
type headingEntry struct {
	offset int
	path   string
}

// headings extracts every heading with its hierarchy from the body.
func (p *Processor) headings(source []byte) []headingEntry {
	docNode := p.md.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(docNode, source, toc.MinDepth(1), toc.MaxDepth(6))
	if err != nil || tree == nil {
		return nil
	}

	var entries []headingEntry
	collect(docNode, source, tree.Items, nil, &entries)

	sort.Slice(entries, func(i, j int) bool { return entries[i].offset < entries[j].offset })
	return entries
}

// collect recursively walks TOC items, building hierarchy paths and
// resolving each heading's offset in the source.
func collect(docNode ast.Node, source []byte, items toc.Items, ancestors []string, out *[]headingEntry) {
	for _, item := range items {
		current := append(ancestors[:len(ancestors):len(ancestors)], string(item.Title))

		if node := findHeadingByID(docNode, string(item.ID)); node != nil && node.Lines().Len() > 0 {
			*out = append(*out, headingEntry{
				offset: lineStart(source, node.Lines().At(0).Start),
				path:   formatHeaderPath(current),
			})
		}

		if len(item.Items) > 0 {
			collect(docNode, source, item.Items, current, out)
		}
	}
}

// findHeadingByID locates a heading node by its auto-generated ID.
func findHeadingByID(node ast.Node, id string) ast.Node {
	var found ast.Node
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			headingID, ok := n.AttributeString("id")
			if ok && string(headingID.([]byte)) == id {
				found = n
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}

// lineStart walks back from a text offset to the start of its line, so a
// chunk beginning at the "#" marker is still governed by that heading.
func lineStart(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	for offset > 0 && source[offset-1] != '\n' {
		offset--
	}
	return offset
}

// formatHeaderPath builds a header hierarchy string.
// Example: ["Installation", "Prerequisites"] -> "# Installation > ## Prerequisites"
func formatHeaderPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	parts := make([]string, 0, len(path))
	for i, segment := range path {
		parts = append(parts, fmt.Sprintf("%s %s", strings.Repeat("#", i+1), segment))
	}
	return strings.Join(parts, " > ")
}

// pathAt returns the path of the last heading at or before offset.
func pathAt(entries []headingEntry, offset int) string {
	path := ""
	for _, e := range entries {
		if e.offset > offset {
			break
		}
		path = e.path
	}
	return path
}
