package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/linkgraph"
	"github.com/custodia-labs/docsync/internal/logger"
	"github.com/custodia-labs/docsync/internal/xref"
)

// Ensure ReferenceService implements the interface.
var _ driving.ReferenceService = (*ReferenceService)(nil)

// IDResolver maps an id-scheme token to a root-relative path.
// The engine ships without one; id references stay unresolved until an
// embedder wires a lookup in.
type IDResolver func(ctx context.Context, token string) (string, error)

// resolution holds one document's resolved references together with
// the content hash they were computed from.
type resolution struct {
	contentHash string
	refs        []domain.ResolvedReference
}

// ReferenceService extracts and resolves cross-references and maintains
// the link graph. The graph, the resolution cache, and the broken-link
// set are each safe for concurrent use; backlink queries never block an
// in-flight indexing batch.
type ReferenceService struct {
	root       string
	graph      *linkgraph.Graph
	idResolver IDResolver

	mu     sync.RWMutex
	cache  map[string]resolution
	broken map[string][]domain.ResolvedReference
}

// NewReferenceService creates a reference service for documents under
// root. idResolver may be nil.
func NewReferenceService(root string, graph *linkgraph.Graph, idResolver IDResolver) *ReferenceService {
	return &ReferenceService{
		root:       root,
		graph:      graph,
		idResolver: idResolver,
		cache:      make(map[string]resolution),
		broken:     make(map[string][]domain.ResolvedReference),
	}
}

// Resolve reads the document from disk and resolves every reference in it.
func (s *ReferenceService) Resolve(ctx context.Context, p string) ([]domain.ResolvedReference, error) {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(absPath(s.root, rel))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return s.ResolveContent(ctx, rel, string(raw))
}

// ResolveContent resolves references in already-loaded content. The
// indexing pipeline calls this with the parsed body so each file is
// read once per pass. Results are cached by content hash; a hit skips
// extraction and resolution entirely.
func (s *ReferenceService) ResolveContent(ctx context.Context, rel, content string) ([]domain.ResolvedReference, error) {
	hash := hashContent(content)

	s.mu.RLock()
	cached, ok := s.cache[rel]
	s.mu.RUnlock()
	if ok && cached.contentHash == hash {
		logger.Debug("Resolution cache hit: %s", rel)
		return cached.refs, nil
	}

	refs := xref.Extract(content)
	logger.Debug("Extracted %d references from %s", len(refs), rel)

	resolved := make([]domain.ResolvedReference, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resolved = append(resolved, s.resolveOne(ctx, rel, ref))
	}

	s.UpdateLinkGraph(rel, resolved)

	broken := brokenOf(resolved)
	if len(broken) > 0 {
		logger.Debug("Broken links in %s: %d", rel, len(broken))
	}

	s.mu.Lock()
	s.cache[rel] = resolution{contentHash: hash, refs: resolved}
	if len(broken) > 0 {
		s.broken[rel] = broken
	} else {
		delete(s.broken, rel)
	}
	s.mu.Unlock()

	return resolved, nil
}

// resolveOne applies the kind-specific resolution rule to one reference.
func (s *ReferenceService) resolveOne(ctx context.Context, sourceRel string, ref domain.Reference) domain.ResolvedReference {
	rr := domain.ResolvedReference{Reference: ref}

	switch ref.Kind {
	case domain.ReferenceExternal:
		// External targets live outside the working copy.
		return rr

	case domain.ReferenceWiki:
		for _, candidate := range wikiCandidates(ref.Target) {
			if target, ok := s.lookup(sourceRel, candidate); ok {
				rr.Resolved = true
				rr.ResolvedPath = target
				return rr
			}
		}
		rr.Error = fmt.Sprintf("no document matches %q", ref.Target)

	case domain.ReferenceInline:
		if target, ok := s.lookup(sourceRel, ref.Target); ok {
			rr.Resolved = true
			rr.ResolvedPath = target
			return rr
		}
		if target, ok := s.lookup(sourceRel, ref.Target+".md"); ok {
			rr.Resolved = true
			rr.ResolvedPath = target
			return rr
		}
		rr.Error = fmt.Sprintf("target %q does not exist", ref.Target)

	case domain.ReferenceID:
		if s.idResolver == nil {
			rr.Error = "no id resolver configured"
			return rr
		}
		target, err := s.idResolver(ctx, ref.Target)
		if err != nil || target == "" {
			rr.Error = fmt.Sprintf("id %q did not resolve", ref.Target)
			return rr
		}
		rr.Resolved = true
		rr.ResolvedPath = target

	case domain.ReferencePath:
		if target, ok := s.lookup(sourceRel, ref.Target); ok {
			rr.Resolved = true
			rr.ResolvedPath = target
			return rr
		}
		rr.Error = fmt.Sprintf("path %q does not exist", ref.Target)
	}

	return rr
}

// lookup maps a target written in a document onto an existing file
// under the root. Targets starting with "/" are anchored at the root;
// everything else resolves against the source document's directory.
// Targets that climb out of the root never resolve.
func (s *ReferenceService) lookup(sourceRel, target string) (string, bool) {
	var joined string
	if strings.HasPrefix(target, "/") {
		joined = path.Clean(strings.TrimPrefix(target, "/"))
	} else {
		joined = path.Join(path.Dir(sourceRel), target)
	}
	if joined == "." || joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}

	info, err := os.Stat(absPath(s.root, joined))
	if err != nil || info.IsDir() {
		return "", false
	}
	return joined, true
}

// wikiCandidates lists the paths a wiki target may denote, in
// precedence order: the file itself, the folder's index.md, the
// folder's README.md.
func wikiCandidates(target string) []string {
	direct := target
	if path.Ext(direct) == "" {
		direct += ".md"
	}
	return []string{direct, target + "/index.md", target + "/README.md"}
}

// UpdateLinkGraph replaces the document's outgoing edges with the
// targets its resolved references point at. Self-references stay; a
// self-loop is a legitimate one-vertex cycle.
func (s *ReferenceService) UpdateLinkGraph(rel string, refs []domain.ResolvedReference) {
	s.graph.ClearOutgoing(rel)
	s.graph.AddVertex(rel)
	for _, ref := range refs {
		if ref.Resolved && ref.ResolvedPath != "" {
			s.graph.AddEdge(rel, ref.ResolvedPath)
		}
	}
}

// RemoveDocument drops the document's vertex, cached resolution, and
// broken-link record after the document is deleted.
func (s *ReferenceService) RemoveDocument(p string) {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return
	}

	s.graph.RemoveVertex(rel)

	s.mu.Lock()
	delete(s.cache, rel)
	delete(s.broken, rel)
	s.mu.Unlock()
}

// BrokenLinks returns the unresolved non-external references recorded
// for a document on its last resolution pass.
func (s *ReferenceService) BrokenLinks(p string) []domain.ResolvedReference {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := s.broken[rel]
	if len(refs) == 0 {
		return nil
	}
	out := make([]domain.ResolvedReference, len(refs))
	copy(out, refs)
	return out
}

// Links returns the resolved outgoing targets of a document.
func (s *ReferenceService) Links(p string) []string {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil
	}
	return s.graph.Outgoing(rel)
}

// Backlinks returns the documents whose resolved references point at
// the given path.
func (s *ReferenceService) Backlinks(p string) []string {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil
	}
	return s.graph.Incoming(rel)
}

// LinkedContext returns documents reachable from path within maxHops
// edges, capped at maxResults entries.
func (s *ReferenceService) LinkedContext(p string, maxHops, maxResults int) []string {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil
	}
	return s.graph.ReachableWithin(rel, maxHops, maxResults)
}

// FindCycle returns the vertices forming a reference cycle reachable
// from path, or nil when none exists.
func (s *ReferenceService) FindCycle(p string) []string {
	rel, err := canonicalPath(s.root, p)
	if err != nil {
		return nil
	}
	return s.graph.FindCycleFrom(rel)
}

// IsAcyclic reports whether the whole link graph is cycle-free.
func (s *ReferenceService) IsAcyclic() bool {
	return s.graph.IsAcyclic()
}

// brokenOf filters the unresolved, non-external references.
func brokenOf(refs []domain.ResolvedReference) []domain.ResolvedReference {
	var broken []domain.ResolvedReference
	for _, ref := range refs {
		if !ref.Resolved && ref.Kind != domain.ReferenceExternal {
			broken = append(broken, ref)
		}
	}
	return broken
}

// hashContent fingerprints document content for the resolution cache.
func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
