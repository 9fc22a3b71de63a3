package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// DeriveTitle picks a document title: the explicit header field when
// present, else the first level-1 heading in the body, else "".
func DeriveTitle(header map[string]any, body string) string {
	if title := HeaderString(header, "title"); title != "" {
		return title
	}
	return firstHeading(body)
}

// firstHeading returns the text of the first level-1 heading in the body.
func firstHeading(body string) string {
	source := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(headingText(heading, source))
		return ast.WalkStop, nil
	})
	return title
}

// headingText collects the literal text under a heading, including text
// nested in emphasis or links.
func headingText(heading *ast.Heading, source []byte) string {
	var sb strings.Builder
	ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
