package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// TypeName returns the document type declared in the header, read from the
// "type" or "doc_type" key with case-insensitive key matching. It returns
// an empty string when no type is declared or the value is not a string.
func TypeName(header map[string]any) string {
	for key, value := range header {
		if !strings.EqualFold(key, "type") && !strings.EqualFold(key, "doc_type") {
			continue
		}
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Validate checks a parsed header against its document type. docType is the
// registry entry for the declared type, or nil when the type is unknown or
// no registry is configured.
//
// A missing type declaration and an unknown type both leave the document
// valid and record a warning. For a known type every required field must be
// present and non-blank; each violation becomes a FieldError. Header fields
// outside the type's required and optional sets are recorded as warnings.
func Validate(header map[string]any, docType *domain.DocType) domain.ValidationResult {
	result := domain.ValidationResult{Valid: true}

	name := TypeName(header)
	if name == "" {
		result.Warnings = append(result.Warnings, "no document type declared")
		return result
	}
	if docType == nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown document type %q", name))
		return result
	}

	for _, field := range docType.RequiredFields {
		value, ok := lookupField(header, field)
		if !ok {
			result.Errors = append(result.Errors, domain.FieldError{
				Field:   field,
				Message: "required field missing",
			})
			continue
		}
		if isBlank(value) {
			result.Errors = append(result.Errors, domain.FieldError{
				Field:   field,
				Message: "required field is blank",
			})
		}
	}

	known := docType.KnownFields()
	var unknown []string
	for key := range header {
		if strings.EqualFold(key, "type") || strings.EqualFold(key, "doc_type") {
			continue
		}
		if _, ok := known[strings.ToLower(key)]; ok {
			continue
		}
		unknown = append(unknown, key)
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown field %q for type %q", key, docType.Name))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// lookupField finds a header value by case-insensitive key match.
func lookupField(header map[string]any, field string) (any, bool) {
	for key, value := range header {
		if strings.EqualFold(key, field) {
			return value, true
		}
	}
	return nil, false
}

// isBlank reports whether a header value counts as absent for required-field
// checks. Nil values and whitespace-only strings are blank; any other value
// counts as present.
func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
