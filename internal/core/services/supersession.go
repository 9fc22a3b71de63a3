package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure SupersessionService implements the interface.
var _ driving.SupersessionService = (*SupersessionService)(nil)

// SupersessionService tracks which documents replace which others.
// The relation maps are safe for concurrent use; retrieval-time score
// adjustment reads them without blocking an in-flight indexing batch.
//
// A document is superseded by at most one other at a time: a later
// declaration against the same target replaces the earlier one in the
// reverse map, though the earlier declarer keeps its forward entry.
type SupersessionService struct {
	tenantKey string
	docStore  driven.DocumentStore
	events    driven.EventPublisher

	mu      sync.RWMutex
	forward map[string]map[string]struct{} // source -> paths it supersedes
	reverse map[string]string              // target -> newest superseder
}

// NewSupersessionService creates a supersession tracker for one tenant.
// events may be nil; notifications are then dropped.
func NewSupersessionService(tenantKey string, docStore driven.DocumentStore, events driven.EventPublisher) *SupersessionService {
	return &SupersessionService{
		tenantKey: tenantKey,
		docStore:  docStore,
		events:    events,
		forward:   make(map[string]map[string]struct{}),
		reverse:   make(map[string]string),
	}
}

// Apply replaces the supersession relations a document declares.
// Each declared target is resolved via the repository; resolved targets
// are demoted to the baseline level when they sit above it, and
// notifications are emitted. Targets with no stored document create no
// relation and are returned for the caller's warning list.
func (s *SupersessionService) Apply(ctx context.Context, sourceRel string, targets []string) ([]string, error) {
	var unresolved []string
	resolved := make(map[string]*domain.Document, len(targets))

	for _, target := range targets {
		doc, targetRel, err := s.resolveTarget(ctx, sourceRel, target)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			unresolved = append(unresolved, target)
			continue
		}
		resolved[targetRel] = doc
	}

	s.replaceRelations(sourceRel, resolved)

	for targetRel, doc := range resolved {
		if err := s.demote(ctx, doc); err != nil {
			return nil, err
		}
		s.publishSuperseded(ctx, targetRel, sourceRel)
	}

	if len(unresolved) > 0 {
		logger.Debug("Supersession targets unresolved for %s: %v", sourceRel, unresolved)
	}

	return unresolved, nil
}

// resolveTarget looks a declared target up in the repository, first as
// a root-relative path, then relative to the declaring document's
// directory.
func (s *SupersessionService) resolveTarget(ctx context.Context, sourceRel, target string) (*domain.Document, string, error) {
	cleaned := path.Clean(target)
	if cleaned == "." || cleaned == ".." {
		return nil, "", nil
	}

	doc, err := s.docStore.GetByTenantAndPath(ctx, s.tenantKey, cleaned)
	if err == nil {
		return doc, cleaned, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("resolve supersession target %q: %w", target, err)
	}

	if dir := path.Dir(sourceRel); dir != "." {
		sibling := path.Join(dir, cleaned)
		doc, err = s.docStore.GetByTenantAndPath(ctx, s.tenantKey, sibling)
		if err == nil {
			return doc, sibling, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("resolve supersession target %q: %w", target, err)
		}
	}

	return nil, "", nil
}

// replaceRelations swaps the source's declared set for the new one and
// keeps the reverse map consistent. The reverse entry of a target
// always names the newest declarer.
func (s *SupersessionService) replaceRelations(sourceRel string, resolved map[string]*domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for target := range s.forward[sourceRel] {
		if _, still := resolved[target]; !still && s.reverse[target] == sourceRel {
			delete(s.reverse, target)
		}
	}

	if len(resolved) == 0 {
		delete(s.forward, sourceRel)
		return
	}

	next := make(map[string]struct{}, len(resolved))
	for target := range resolved {
		next[target] = struct{}{}
		s.reverse[target] = sourceRel
	}
	s.forward[sourceRel] = next
}

// demote resets an above-baseline target to the baseline level and
// announces the change.
func (s *SupersessionService) demote(ctx context.Context, doc *domain.Document) error {
	if !doc.Promotion.Above(domain.PromotionStandard) {
		return nil
	}

	if err := s.docStore.UpdatePromotionLevel(ctx, doc.ID, domain.PromotionStandard); err != nil {
		return fmt.Errorf("demote %s: %w", doc.Path, err)
	}
	logger.Info("Demoted %s: %s -> %s", doc.Path, doc.Promotion, domain.PromotionStandard)

	if s.events != nil {
		event := domain.PromotionChangedEvent{
			TenantKey:  s.tenantKey,
			Path:       doc.Path,
			DocumentID: doc.ID,
			Before:     doc.Promotion,
			After:      domain.PromotionStandard,
		}
		if err := s.events.PublishPromotionChanged(ctx, event); err != nil {
			logger.Warn("Publish promotion change for %s: %v", doc.Path, err)
		}
	}

	return nil
}

// publishSuperseded announces that target is now superseded by source.
func (s *SupersessionService) publishSuperseded(ctx context.Context, targetRel, sourceRel string) {
	if s.events == nil {
		return
	}
	event := domain.SupersededEvent{
		TenantKey:    s.tenantKey,
		Path:         targetRel,
		SupersededBy: sourceRel,
	}
	if err := s.events.PublishSuperseded(ctx, event); err != nil {
		logger.Warn("Publish superseded for %s: %v", targetRel, err)
	}
}

// Chain walks supersession relations from a document back to the
// chain's origin and forward to its newest member, returning the
// ordered oldest-to-newest chain.
func (s *SupersessionService) Chain(ctx context.Context, p string) ([]domain.SupersessionEntry, error) {
	start := path.Clean(p)

	// Walk backward to the oldest member. At a branch the
	// lexicographically first relation is followed.
	origin := start
	visited := map[string]bool{origin: true}
	for {
		older := firstRelation(s.Supersedes(origin))
		if older == "" || visited[older] {
			break
		}
		visited[older] = true
		origin = older
	}

	// Walk forward from the origin to the newest member.
	chain := []string{origin}
	visited = map[string]bool{origin: true}
	current := origin
	for {
		newer := s.supersederOf(current)
		if newer == "" || visited[newer] {
			break
		}
		visited[newer] = true
		chain = append(chain, newer)
		current = newer
	}

	entries := make([]domain.SupersessionEntry, 0, len(chain))
	for _, rel := range chain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := domain.SupersessionEntry{Path: rel}
		doc, err := s.docStore.GetByTenantAndPath(ctx, s.tenantKey, rel)
		if err == nil {
			entry.Title = doc.Title
			entry.ModifiedAt = doc.ModifiedAt
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load chain entry %q: %w", rel, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// supersederOf returns the newest declarer against a path, or "".
func (s *SupersessionService) supersederOf(rel string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reverse[rel]
}

// Supersedes returns the paths the given document declares as
// superseded, sorted.
func (s *SupersessionService) Supersedes(p string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.forward[path.Clean(p)])
}

// SupersededBy returns the document that currently supersedes the given
// path, or nil when the path is not superseded.
func (s *SupersessionService) SupersededBy(p string) []string {
	if superseder := s.supersederOf(path.Clean(p)); superseder != "" {
		return []string{superseder}
	}
	return nil
}

// IsSuperseded reports whether any document supersedes the path.
func (s *SupersessionService) IsSuperseded(p string) bool {
	return s.supersederOf(path.Clean(p)) != ""
}

// AdjustScores multiplies the score of every superseded result by the
// supersession penalty and re-sorts descending by adjusted score.
func (s *SupersessionService) AdjustScores(results []domain.SearchResult) []domain.SearchResult {
	for i := range results {
		if s.IsSuperseded(results[i].Document.Path) {
			results[i].Score *= domain.SupersessionPenalty
			results[i].Superseded = true
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// Remove purges a document's forward and reverse entries and scrubs it
// out of every other document's superseded set. The full scrub matters:
// an overwritten reverse entry no longer names every declarer.
func (s *SupersessionService) Remove(p string) {
	rel := path.Clean(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	for target := range s.forward[rel] {
		if s.reverse[target] == rel {
			delete(s.reverse, target)
		}
	}
	delete(s.forward, rel)

	delete(s.reverse, rel)
	for source, targets := range s.forward {
		delete(targets, rel)
		if len(targets) == 0 {
			delete(s.forward, source)
		}
	}
}

// firstRelation picks the deterministic branch of a relation set.
func firstRelation(relations []string) string {
	if len(relations) == 0 {
		return ""
	}
	return relations[0]
}

// sortedKeys flattens a relation set into a sorted slice.
func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
