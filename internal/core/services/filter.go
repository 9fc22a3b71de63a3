package services

import (
	"path/filepath"
	"strings"
)

// pathFilter evaluates include/exclude glob patterns against paths
// relative to the watched root. Exclude wins over include; an empty
// include list admits everything.
type pathFilter struct {
	include []string
	exclude []string
}

func newPathFilter(include, exclude []string) *pathFilter {
	return &pathFilter{include: include, exclude: exclude}
}

// Match reports whether a relative path passes the filter. Paths with
// a hidden component never pass; the watch layer cannot see those, and
// reconciliation must agree with it on what is tracked.
func (f *pathFilter) Match(rel string) bool {
	if hasHiddenComponent(rel) {
		return false
	}
	if matchesPatterns(rel, f.exclude) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return matchesPatterns(rel, f.include)
}

// hasHiddenComponent reports whether any component of the relative
// path starts with a dot. Bare "." and ".." do not count.
func hasHiddenComponent(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}

// matchesPatterns checks a path against glob patterns, trying the base
// name first and the full relative path second.
func matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
		matched, err = filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
