package driven

import "github.com/custodia-labs/docsync/internal/core/domain"

// DocTypeRegistry holds the document type schemas headers validate
// against. Built-in types ship with the application; user types are
// registered from configuration.
type DocTypeRegistry interface {
	// Get retrieves a type schema by name, case-insensitively.
	// Returns nil and no error when the type is not registered.
	Get(name string) (*domain.DocType, error)

	// List returns all registered type schemas sorted by name.
	List() ([]domain.DocType, error)

	// Register adds a user-defined type schema. Registering a name that
	// collides with a built-in type returns domain.ErrAlreadyExists.
	Register(docType domain.DocType) error
}
