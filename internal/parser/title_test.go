package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle_HeaderFieldWins(t *testing.T) {
	header := map[string]any{"title": "Explicit Title"}
	body := "# Heading Title\n\nContent."

	assert.Equal(t, "Explicit Title", DeriveTitle(header, body))
}

func TestDeriveTitle_FirstHeading(t *testing.T) {
	body := "Some intro paragraph.\n\n# The Real Title\n\n# Second Heading\n"

	assert.Equal(t, "The Real Title", DeriveTitle(nil, body))
}

func TestDeriveTitle_SkipsLowerLevelHeadings(t *testing.T) {
	body := "## Subsection\n\n### Deeper\n\ncontent"

	assert.Empty(t, DeriveTitle(nil, body))
}

func TestDeriveTitle_HeadingWithEmphasis(t *testing.T) {
	body := "# Hello *nested* [world](docs/world.md)\n"

	assert.Equal(t, "Hello nested world", DeriveTitle(nil, body))
}

func TestDeriveTitle_BlankHeaderFieldFallsThrough(t *testing.T) {
	header := map[string]any{"title": "   "}
	body := "# Fallback Title\n"

	assert.Equal(t, "Fallback Title", DeriveTitle(header, body))
}

func TestDeriveTitle_NothingAvailable(t *testing.T) {
	assert.Empty(t, DeriveTitle(nil, "plain text without headings"))
	assert.Empty(t, DeriveTitle(nil, ""))
}
