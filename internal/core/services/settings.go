package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyProjectName   = "project.name"
	keyProjectBranch = "project.branch"

	keyWatchRoot              = "watch.root"
	keyWatchInclude           = "watch.include"
	keyWatchExclude           = "watch.exclude"
	keyWatchDebounce          = "watch.debounce"
	keyWatchReconcileInterval = "watch.reconcile_interval"

	keyChunkSize       = "chunk.size"
	keyChunkOverlap    = "chunk.overlap"
	keyChunkMinSize    = "chunk.min_size"
	keyChunkBoundaries = "chunk.respect_boundaries"

	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"

	keyVectorProvider   = "vector.provider"
	keyVectorAddress    = "vector.address"
	keyVectorCollection = "vector.collection"
)

// defaultEmbeddingModels picks a model per provider when the caller
// does not name one.
var defaultEmbeddingModels = map[domain.EmbeddingProvider]string{
	domain.EmbeddingProviderOpenAI: "text-embedding-3-small",
	domain.EmbeddingProviderOllama: "nomic-embed-text",
}

// defaultOllamaBaseURL is where a local Ollama instance listens.
const defaultOllamaBaseURL = "http://localhost:11434"

// defaultQdrantAddress is the gRPC endpoint of a local Qdrant server.
const defaultQdrantAddress = "localhost:6334"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Project: domain.ProjectSettings{
			Name:   s.getString(keyProjectName, defaults.Project.Name),
			Branch: s.getString(keyProjectBranch, defaults.Project.Branch),
		},
		Watch: domain.WatchSettings{
			Root:              s.configStore.GetString(keyWatchRoot),
			Include:           s.getStringSlice(keyWatchInclude, defaults.Watch.Include),
			Exclude:           s.configStore.GetStringSlice(keyWatchExclude),
			Debounce:          s.getDuration(keyWatchDebounce, defaults.Watch.Debounce),
			ReconcileInterval: s.getDuration(keyWatchReconcileInterval, defaults.Watch.ReconcileInterval),
		},
		Chunk: domain.ChunkSettings{
			Size:              s.getInt(keyChunkSize, defaults.Chunk.Size),
			Overlap:           s.getInt(keyChunkOverlap, defaults.Chunk.Overlap),
			MinSize:           s.getInt(keyChunkMinSize, defaults.Chunk.MinSize),
			RespectBoundaries: s.getBool(keyChunkBoundaries, defaults.Chunk.RespectBoundaries),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getEmbeddingProvider(defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Vector: domain.VectorSettings{
			Provider:   s.getVectorProvider(defaults.Vector.Provider),
			Address:    s.configStore.GetString(keyVectorAddress),
			Collection: s.getString(keyVectorCollection, defaults.Vector.Collection),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save project settings
	if err := s.configStore.Set(keyProjectName, settings.Project.Name); err != nil {
		return fmt.Errorf("save project name: %w", err)
	}
	if err := s.configStore.Set(keyProjectBranch, settings.Project.Branch); err != nil {
		return fmt.Errorf("save project branch: %w", err)
	}

	// Save watch settings
	if err := s.configStore.Set(keyWatchRoot, settings.Watch.Root); err != nil {
		return fmt.Errorf("save watch root: %w", err)
	}
	if err := s.configStore.Set(keyWatchInclude, settings.Watch.Include); err != nil {
		return fmt.Errorf("save watch include: %w", err)
	}
	if err := s.configStore.Set(keyWatchExclude, settings.Watch.Exclude); err != nil {
		return fmt.Errorf("save watch exclude: %w", err)
	}
	if err := s.configStore.Set(keyWatchDebounce, settings.Watch.Debounce.String()); err != nil {
		return fmt.Errorf("save watch debounce: %w", err)
	}
	if err := s.configStore.Set(keyWatchReconcileInterval, settings.Watch.ReconcileInterval.String()); err != nil {
		return fmt.Errorf("save reconcile interval: %w", err)
	}

	// Save chunk settings
	if err := s.configStore.Set(keyChunkSize, settings.Chunk.Size); err != nil {
		return fmt.Errorf("save chunk size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunk.Overlap); err != nil {
		return fmt.Errorf("save chunk overlap: %w", err)
	}
	if err := s.configStore.Set(keyChunkMinSize, settings.Chunk.MinSize); err != nil {
		return fmt.Errorf("save chunk min size: %w", err)
	}
	if err := s.configStore.Set(keyChunkBoundaries, settings.Chunk.RespectBoundaries); err != nil {
		return fmt.Errorf("save chunk boundaries: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save vector settings
	if err := s.configStore.Set(keyVectorProvider, settings.Vector.Provider.String()); err != nil {
		return fmt.Errorf("save vector provider: %w", err)
	}
	if err := s.configStore.Set(keyVectorAddress, settings.Vector.Address); err != nil {
		return fmt.Errorf("save vector address: %w", err)
	}
	if err := s.configStore.Set(keyVectorCollection, settings.Vector.Collection); err != nil {
		return fmt.Errorf("save vector collection: %w", err)
	}

	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := defaultEmbeddingModels[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Local providers need a base URL; cloud providers don't
	if provider == domain.EmbeddingProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaBaseURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetVectorProvider configures the vector index provider.
func (s *SettingsService) SetVectorProvider(provider domain.VectorProvider, address string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid vector provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Vector.Provider = provider

	switch provider {
	case domain.VectorProviderQdrant:
		if address == "" {
			address = defaultQdrantAddress
		}
		settings.Vector.Address = address
	default:
		settings.Vector.Address = ""
	}

	return s.Save(settings)
}

// Validate checks if current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.Provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", settings.Embedding.Provider)
	}
	if !settings.Vector.Provider.IsValid() {
		return fmt.Errorf("invalid vector provider: %s", settings.Vector.Provider)
	}

	// A vector index without an embedding service can never be filled
	if settings.Vector.Provider != domain.VectorProviderNone && !settings.Embedding.IsConfigured() {
		return fmt.Errorf(
			"vector provider %q requires embedding provider to be configured",
			settings.Vector.Provider.Description(),
		)
	}

	if settings.Vector.Provider == domain.VectorProviderQdrant && settings.Vector.Address == "" {
		return fmt.Errorf("vector provider %q requires an address", settings.Vector.Provider)
	}

	if settings.Chunk.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", settings.Chunk.Size)
	}
	if settings.Chunk.Overlap < 0 || settings.Chunk.Overlap >= settings.Chunk.Size {
		return fmt.Errorf("chunk overlap must sit in [0, size), got %d", settings.Chunk.Overlap)
	}
	if settings.Chunk.MinSize < 0 {
		return fmt.Errorf("chunk min size must not be negative, got %d", settings.Chunk.MinSize)
	}

	if settings.Watch.Debounce <= 0 {
		return fmt.Errorf("watch debounce must be positive, got %s", settings.Watch.Debounce)
	}

	return nil
}

// RequiresEmbedding returns true if the configured vector provider
// needs an embedding service.
func (s *SettingsService) RequiresEmbedding() bool {
	settings, err := s.Get()
	if err != nil {
		return false
	}
	return settings.Vector.Provider != domain.VectorProviderNone
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getEmbeddingProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	val := s.configStore.GetString(keyEmbedProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.EmbeddingProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getVectorProvider(defaultVal domain.VectorProvider) domain.VectorProvider {
	val := s.configStore.GetString(keyVectorProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.VectorProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
