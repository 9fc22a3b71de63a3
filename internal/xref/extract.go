// Package xref extracts cross-references from document bodies. Extraction
// is purely syntactic; resolving targets against the filesystem or the
// document repository happens in the resolver service.
package xref

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

var (
	wikiPattern   = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)
	inlinePattern = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()\s]+)\)`)
	idPattern     = regexp.MustCompile(`\bid:([A-Za-z0-9_-]+)`)
	pathPattern   = regexp.MustCompile(`\bpath:([^\s)\]]+)`)
)

// externalPrefixes classify inline link targets that point outside the
// documentation tree. External references are never resolved.
var externalPrefixes = []string{"http://", "https://"}

// IsExternal reports whether a target points at an external URL.
func IsExternal(target string) bool {
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

// span marks a byte range of a line already claimed by an earlier pattern.
type span struct {
	start, end int
}

// Extract scans content line by line and returns every reference found.
// Patterns are matched per line in a fixed order (wiki, inline, id, path);
// a match inside a range claimed by an earlier pattern is dropped so that
// a path token inside an inline link is not reported twice. Line and
// column are 1-based, column counted in bytes.
func Extract(content string) []domain.Reference {
	var refs []domain.Reference

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lineNo := i + 1
		var claimed []span

		for _, m := range wikiPattern.FindAllStringSubmatchIndex(line, -1) {
			inner := line[m[2]:m[3]]
			display := ""
			if idx := strings.Index(inner, "|"); idx >= 0 {
				display = strings.TrimSpace(inner[idx+1:])
				inner = inner[:idx]
			}
			target, anchor := splitAnchor(inner)
			refs = append(refs, domain.Reference{
				Kind:        domain.ReferenceWiki,
				Raw:         line[m[0]:m[1]],
				Target:      strings.TrimSpace(target),
				DisplayText: display,
				Anchor:      anchor,
				Line:        lineNo,
				Column:      m[0] + 1,
			})
			claimed = append(claimed, span{m[0], m[1]})
		}

		for _, m := range inlinePattern.FindAllStringSubmatchIndex(line, -1) {
			if overlaps(claimed, m[0], m[1]) {
				continue
			}
			rawTarget := line[m[4]:m[5]]
			kind := domain.ReferenceInline
			target, anchor := rawTarget, ""
			if IsExternal(rawTarget) {
				kind = domain.ReferenceExternal
			} else {
				target, anchor = splitAnchor(rawTarget)
			}
			refs = append(refs, domain.Reference{
				Kind:        kind,
				Raw:         line[m[0]:m[1]],
				Target:      target,
				DisplayText: line[m[2]:m[3]],
				Anchor:      anchor,
				Line:        lineNo,
				Column:      m[0] + 1,
			})
			claimed = append(claimed, span{m[0], m[1]})
		}

		for _, m := range idPattern.FindAllStringSubmatchIndex(line, -1) {
			if overlaps(claimed, m[0], m[1]) {
				continue
			}
			refs = append(refs, domain.Reference{
				Kind:   domain.ReferenceID,
				Raw:    line[m[0]:m[1]],
				Target: line[m[2]:m[3]],
				Line:   lineNo,
				Column: m[0] + 1,
			})
			claimed = append(claimed, span{m[0], m[1]})
		}

		for _, m := range pathPattern.FindAllStringSubmatchIndex(line, -1) {
			if overlaps(claimed, m[0], m[1]) {
				continue
			}
			target, anchor := splitAnchor(line[m[2]:m[3]])
			refs = append(refs, domain.Reference{
				Kind:   domain.ReferencePath,
				Raw:    line[m[0]:m[1]],
				Target: target,
				Anchor: anchor,
				Line:   lineNo,
				Column: m[0] + 1,
			})
			claimed = append(claimed, span{m[0], m[1]})
		}
	}
	return refs
}

// splitAnchor separates an optional fragment from a target, splitting on
// the last '#'.
func splitAnchor(target string) (string, string) {
	idx := strings.LastIndex(target, "#")
	if idx < 0 {
		return target, ""
	}
	return target[:idx], target[idx+1:]
}

// overlaps reports whether [start, end) intersects any claimed span.
func overlaps(claimed []span, start, end int) bool {
	for _, s := range claimed {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}
