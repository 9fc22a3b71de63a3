package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDocType_KnownFields tests the required/optional union
func TestDocType_KnownFields(t *testing.T) {
	dt := DocType{
		Name:           "decision",
		RequiredFields: []string{"status", "date"},
		OptionalFields: []string{"deciders"},
	}

	known := dt.KnownFields()
	assert.True(t, known["status"])
	assert.True(t, known["date"])
	assert.True(t, known["deciders"])
	assert.False(t, known["reviewers"])
	assert.Len(t, known, 3)
}
