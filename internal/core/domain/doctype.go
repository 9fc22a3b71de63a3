package domain

import "strings"

// DocType describes the schema a declared document type validates against.
type DocType struct {
	// Name is the type identifier, e.g. "note" or "decision".
	Name string

	// RequiredFields must be present and non-blank in the header.
	RequiredFields []string

	// OptionalFields are known but not mandatory.
	OptionalFields []string

	// IsBuiltIn distinguishes shipped types from user-registered ones.
	IsBuiltIn bool
}

// KnownFields returns the union of required and optional field names,
// lowercased for case-insensitive lookup.
func (t *DocType) KnownFields() map[string]bool {
	known := make(map[string]bool, len(t.RequiredFields)+len(t.OptionalFields))
	for _, f := range t.RequiredFields {
		known[strings.ToLower(f)] = true
	}
	for _, f := range t.OptionalFields {
		known[strings.ToLower(f)] = true
	}
	return known
}

// FieldError reports a schema violation for one header field.
type FieldError struct {
	// Field is the violating field name.
	Field string

	// Message describes the violation.
	Message string
}

// ValidationResult carries the outcome of header validation.
// Errors stop indexing of the document; warnings do not.
type ValidationResult struct {
	// Valid is true when no errors were recorded.
	Valid bool

	// Errors lists schema violations, one per missing required field.
	Errors []FieldError

	// Warnings lists non-fatal observations.
	Warnings []string
}
