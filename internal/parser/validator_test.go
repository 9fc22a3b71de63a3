package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func noteType() *domain.DocType {
	return &domain.DocType{
		Name:           "note",
		RequiredFields: []string{"title", "status"},
		OptionalFields: []string{"tags", "supersedes"},
		IsBuiltIn:      true,
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]any
		want   string
	}{
		{"type key", map[string]any{"type": "note"}, "note"},
		{"doc_type key", map[string]any{"doc_type": "spec"}, "spec"},
		{"case insensitive key", map[string]any{"Type": "decision"}, "decision"},
		{"upper case key", map[string]any{"DOC_TYPE": "guide"}, "guide"},
		{"value trimmed", map[string]any{"type": " note "}, "note"},
		{"non-string value", map[string]any{"type": 7}, ""},
		{"absent", map[string]any{"title": "x"}, ""},
		{"nil header", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeName(tt.header))
		})
	}
}

func TestValidate_NoTypeDeclared(t *testing.T) {
	result := Validate(map[string]any{"title": "Untyped"}, nil)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no document type")
}

func TestValidate_UnknownType(t *testing.T) {
	header := map[string]any{"type": "mystery", "title": "X"}
	result := Validate(header, nil)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"mystery"`)
}

func TestValidate_AllRequiredPresent(t *testing.T) {
	header := map[string]any{
		"type":   "note",
		"title":  "Design Notes",
		"status": "active",
		"tags":   []any{"infra"},
	}

	result := Validate(header, noteType())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	header := map[string]any{"type": "note", "title": "No Status"}

	result := Validate(header, noteType())
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "status", result.Errors[0].Field)
	assert.Equal(t, "required field missing", result.Errors[0].Message)
}

func TestValidate_BlankRequiredField(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"whitespace string", "   "},
		{"empty string", ""},
		{"nil value", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := map[string]any{"type": "note", "title": "T", "status": tt.value}

			result := Validate(header, noteType())
			assert.False(t, result.Valid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, "status", result.Errors[0].Field)
			assert.Equal(t, "required field is blank", result.Errors[0].Message)
		})
	}
}

func TestValidate_OneErrorPerMissingField(t *testing.T) {
	header := map[string]any{"type": "note"}

	result := Validate(header, noteType())
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "title", result.Errors[0].Field)
	assert.Equal(t, "status", result.Errors[1].Field)
}

func TestValidate_RequiredFieldCaseInsensitive(t *testing.T) {
	header := map[string]any{"type": "note", "Title": "T", "STATUS": "done"}

	result := Validate(header, noteType())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_UnknownFieldsWarn(t *testing.T) {
	header := map[string]any{
		"type":     "note",
		"title":    "T",
		"status":   "active",
		"zebra":    "stripes",
		"aardv":    "ark",
		"doc_type": "note",
	}

	result := Validate(header, noteType())
	assert.True(t, result.Valid, "unknown fields never invalidate")
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], `"aardv"`)
	assert.Contains(t, result.Warnings[1], `"zebra"`)
}

func TestValidate_NonStringRequiredValueCounts(t *testing.T) {
	docType := &domain.DocType{Name: "spec", RequiredFields: []string{"revision"}}
	header := map[string]any{"type": "spec", "revision": 4}

	result := Validate(header, docType)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}
