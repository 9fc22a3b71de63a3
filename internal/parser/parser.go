// Package parser splits structured text documents into a metadata header
// and a body, validates the header against a declared type schema, and
// derives titles. Parsing has no I/O beyond the input string and is never
// fatal for malformed headers.
package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// HeaderMarker delimits the optional header block. The block opens with a
// marker as the very first line and closes with a matching marker line.
const HeaderMarker = "---"

// Outcome is the result of parsing one document.
type Outcome struct {
	// Header holds the decoded header fields, nil when absent or broken.
	Header map[string]any

	// Body is the document text after the header block, or the whole
	// input when no header block exists.
	Body string

	// HeaderError captures the decode failure for a malformed header.
	// The document is still returned with the full text as body.
	HeaderError error
}

// HasHeader returns true when a header block decoded successfully.
func (o *Outcome) HasHeader() bool {
	return o.Header != nil
}

// Parse splits raw text into header block and body. A header block must
// open with the marker on the first line and close with a later marker
// line; anything else means the whole input is body. A block that fails to
// decode as structured data never fails the parse: the error is captured
// and the full text becomes the body.
func Parse(raw string) *Outcome {
	normalised := strings.ReplaceAll(raw, "\r\n", "\n")

	block, body, found := splitHeaderBlock(normalised)
	if !found {
		return &Outcome{Body: normalised}
	}

	header := make(map[string]any)
	if err := yaml.Unmarshal([]byte(block), &header); err != nil {
		return &Outcome{Body: normalised, HeaderError: err}
	}
	if len(header) == 0 {
		header = map[string]any{}
	}

	return &Outcome{Header: header, Body: body}
}

// splitHeaderBlock separates the delimited header block from the body.
// Returns found=false when the input does not open with a marker line or
// no closing marker exists.
func splitHeaderBlock(text string) (block, body string, found bool) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != HeaderMarker {
		return "", "", false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == HeaderMarker {
			block = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return block, body, true
		}
	}
	return "", "", false
}

// HeaderString returns the header value for key as a trimmed string.
// Non-string scalars are not coerced; absent or non-string values yield "".
func HeaderString(header map[string]any, key string) string {
	if header == nil {
		return ""
	}
	if v, ok := header[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// SupersededTargets reads the supersedes declaration from a header.
// The value may be a single string or a list of strings; blank entries
// are dropped.
func SupersededTargets(header map[string]any) []string {
	if header == nil {
		return nil
	}
	raw, ok := header["supersedes"]
	if !ok {
		return nil
	}

	var targets []string
	switch v := raw.(type) {
	case string:
		if t := strings.TrimSpace(v); t != "" {
			targets = append(targets, t)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					targets = append(targets, t)
				}
			}
		}
	}
	return targets
}
