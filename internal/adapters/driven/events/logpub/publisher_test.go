package logpub

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/logger"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})
	return &buf
}

// --- Tests ---

func TestPublisher_PublishSuperseded(t *testing.T) {
	buf := captureLog(t)

	err := NewPublisher().PublishSuperseded(context.Background(), domain.SupersededEvent{
		TenantKey:    "docsync:main:abcd1234",
		Path:         "notes/old.md",
		SupersededBy: "notes/new.md",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "notes/old.md -> notes/new.md")
}

func TestPublisher_PublishPromotionChanged(t *testing.T) {
	buf := captureLog(t)

	err := NewPublisher().PublishPromotionChanged(context.Background(), domain.PromotionChangedEvent{
		TenantKey: "docsync:main:abcd1234",
		Path:      "notes/old.md",
		Before:    domain.PromotionCritical,
		After:     domain.PromotionStandard,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "notes/old.md critical -> standard")
}
