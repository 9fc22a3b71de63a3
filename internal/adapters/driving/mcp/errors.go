// Package mcp provides a Model Context Protocol server adapter for docsync.
// It lets AI assistants search the index and inspect documents, links, and
// supersession chains.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
