// Package static provides the document type registry. Built-in types are
// compiled in; user-defined types are registered from configuration at
// startup.
package static

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// commonOptionalFields are understood for every document type. The engine
// reads title for display, supersedes for chain tracking, and promotion
// for retrieval weighting; tags are carried through as-is.
var commonOptionalFields = []string{"title", "tags", "supersedes", "promotion"}

// builtinTypes ship with the application.
var builtinTypes = []domain.DocType{
	{
		Name:           "note",
		OptionalFields: commonOptionalFields,
		IsBuiltIn:      true,
	},
	{
		Name:           "spec",
		RequiredFields: []string{"status"},
		OptionalFields: append([]string{"owner"}, commonOptionalFields...),
		IsBuiltIn:      true,
	},
	{
		Name:           "decision",
		RequiredFields: []string{"status", "date"},
		OptionalFields: append([]string{"context"}, commonOptionalFields...),
		IsBuiltIn:      true,
	},
	{
		Name:           "guide",
		OptionalFields: append([]string{"audience"}, commonOptionalFields...),
		IsBuiltIn:      true,
	},
}

// Registry holds document type schemas keyed by lowercased name.
type Registry struct {
	mu    sync.RWMutex
	types map[string]domain.DocType
}

// Ensure Registry implements the interface.
var _ driven.DocTypeRegistry = (*Registry)(nil)

// NewRegistry creates a registry seeded with the built-in types.
func NewRegistry() *Registry {
	types := make(map[string]domain.DocType, len(builtinTypes))
	for _, docType := range builtinTypes {
		types[strings.ToLower(docType.Name)] = docType
	}
	return &Registry{types: types}
}

// Get retrieves a type schema by name, case-insensitively.
// Returns nil and no error when the type is not registered.
func (r *Registry) Get(name string) (*domain.DocType, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	docType, ok := r.types[key]
	if !ok {
		return nil, nil
	}
	copied := copyDocType(docType)
	return &copied, nil
}

// List returns all registered type schemas sorted by name.
func (r *Registry) List() ([]domain.DocType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.DocType, 0, len(r.types))
	for _, docType := range r.types {
		types = append(types, copyDocType(docType))
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].Name < types[j].Name
	})
	return types, nil
}

// Register adds a user-defined type schema. Registering a name that
// collides with a built-in type returns domain.ErrAlreadyExists;
// re-registering a user type replaces it.
func (r *Registry) Register(docType domain.DocType) error {
	key := strings.ToLower(strings.TrimSpace(docType.Name))
	if key == "" {
		return fmt.Errorf("%w: document type name is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.types[key]; ok && existing.IsBuiltIn {
		return fmt.Errorf("%w: %q is a built-in type", domain.ErrAlreadyExists, existing.Name)
	}

	docType.IsBuiltIn = false
	r.types[key] = copyDocType(docType)
	return nil
}

// copyDocType clones field slices so callers cannot mutate registry state.
func copyDocType(docType domain.DocType) domain.DocType {
	copied := docType
	copied.RequiredFields = append([]string(nil), docType.RequiredFields...)
	copied.OptionalFields = append([]string(nil), docType.OptionalFields...)
	return copied
}
