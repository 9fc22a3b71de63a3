package driving

import "github.com/custodia-labs/docsync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error

	// SetVectorProvider configures the vector index provider.
	SetVectorProvider(provider domain.VectorProvider, address string) error

	// Validate checks if current settings are internally consistent.
	Validate() error

	// RequiresEmbedding returns true if the configured vector provider
	// needs an embedding service.
	RequiresEmbedding() bool

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
