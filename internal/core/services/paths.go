package services

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// canonicalPath converts a caller-supplied path into the canonical
// root-relative, forward-slash form used as the repository key.
// Absolute paths are accepted when they lie under root.
func canonicalPath(root, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return "", fmt.Errorf("%w: path %q not under root", domain.ErrInvalidInput, p)
		}
		p = rel
	}
	cleaned := path.Clean(filepath.ToSlash(p))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: path %q escapes root", domain.ErrInvalidInput, p)
	}
	return cleaned, nil
}

// absPath maps a canonical root-relative path back onto the filesystem.
func absPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
