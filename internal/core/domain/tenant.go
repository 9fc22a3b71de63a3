package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// pathHashLength is the number of hex characters kept from the digest.
const pathHashLength = 12

// NewTenantKey builds the composite key isolating one working copy.
// The key is "project:branch:pathhash" where pathhash is a fixed-length
// digest of the normalised absolute root path. Two spellings of the same
// path (separator style, trailing separators) always produce the same key;
// distinct working copies (e.g. git worktrees) do not collide in practice.
func NewTenantKey(project, branch, absRoot string) string {
	return fmt.Sprintf("%s:%s:%s", project, branch, HashPath(absRoot))
}

// HashPath returns the fixed-length, separator-agnostic digest of a path.
func HashPath(path string) string {
	normalised := strings.ReplaceAll(path, "\\", "/")
	normalised = strings.TrimRight(normalised, "/")
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])[:pathHashLength]
}
