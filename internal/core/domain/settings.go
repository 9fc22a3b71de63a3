package domain

import "time"

const unknownDescription = "Unknown"

// Watch defaults.
const (
	// DefaultDebounceInterval is the quiet period before a pending
	// change batch is dispatched.
	DefaultDebounceInterval = 500 * time.Millisecond

	// DefaultReconcileInterval is how often the scheduler runs a
	// drift scan when watching.
	DefaultReconcileInterval = 10 * time.Minute
)

// EmbeddingProvider identifies an embedding service provider.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderNone disables embeddings. Documents index
	// without vectors and semantic search is unavailable.
	EmbeddingProviderNone EmbeddingProvider = "none"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderOpenAI, EmbeddingProviderOllama, EmbeddingProviderNone:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// VectorProvider identifies a vector index backend.
type VectorProvider string

// Available vector index providers.
const (
	// VectorProviderQdrant stores vectors in a Qdrant collection.
	VectorProviderQdrant VectorProvider = "qdrant"

	// VectorProviderMemory keeps vectors in process memory.
	// Suitable for tests and small working copies.
	VectorProviderMemory VectorProvider = "memory"

	// VectorProviderNone disables the vector index.
	VectorProviderNone VectorProvider = "none"
)

// IsValid returns true if the provider is recognised.
func (p VectorProvider) IsValid() bool {
	switch p {
	case VectorProviderQdrant, VectorProviderMemory, VectorProviderNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p VectorProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p VectorProvider) Description() string {
	switch p {
	case VectorProviderQdrant:
		return "Qdrant (server)"
	case VectorProviderMemory:
		return "In-memory (ephemeral)"
	case VectorProviderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// WatchSettings holds the file watcher configuration surface.
type WatchSettings struct {
	// Root is the directory to watch.
	Root string

	// Include are glob patterns a relative path must match.
	// Empty means everything is included.
	Include []string

	// Exclude are glob patterns that reject a relative path.
	// Exclude wins over include.
	Exclude []string

	// Debounce is the quiet period before dispatching a batch.
	Debounce time.Duration

	// ReconcileInterval is how often drift scans run while watching.
	// Zero disables periodic reconciliation.
	ReconcileInterval time.Duration
}

// ChunkSettings holds the chunking engine configuration surface.
type ChunkSettings struct {
	// Size is the target chunk size in characters.
	Size int

	// Overlap is the tail carried between adjacent chunks.
	// Must be smaller than Size.
	Overlap int

	// MinSize folds any smaller chunk into its successor.
	MinSize int

	// RespectBoundaries accumulates paragraphs instead of sliding
	// a fixed window.
	RespectBoundaries bool
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is usable.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == EmbeddingProviderNone {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// VectorSettings holds vector index configuration.
type VectorSettings struct {
	// Provider is the vector index backend.
	Provider VectorProvider

	// Address is the backend endpoint (for Qdrant).
	Address string

	// Collection is the collection name (for Qdrant).
	Collection string
}

// ProjectSettings names the working copy for tenant key construction.
type ProjectSettings struct {
	// Name identifies the project. Defaults to the root's base name.
	Name string

	// Branch identifies the working branch. Defaults to "main".
	Branch string
}

// AppSettings holds all engine settings.
type AppSettings struct {
	// Project names the working copy.
	Project ProjectSettings

	// Watch holds watcher configuration.
	Watch WatchSettings

	// Chunk holds chunking engine configuration.
	Chunk ChunkSettings

	// Embedding holds embedding provider configuration.
	Embedding EmbeddingSettings

	// Vector holds vector index configuration.
	Vector VectorSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Embedding and vector providers are left unconfigured; documents
// index without vectors until the user sets them up.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Project: ProjectSettings{
			Branch: "main",
		},
		Watch: WatchSettings{
			Include:           []string{"*.md"},
			Debounce:          DefaultDebounceInterval,
			ReconcileInterval: DefaultReconcileInterval,
		},
		Chunk: ChunkSettings{
			Size:              1000,
			Overlap:           200,
			MinSize:           100,
			RespectBoundaries: true,
		},
		Embedding: EmbeddingSettings{
			Provider: EmbeddingProviderNone,
		},
		Vector: VectorSettings{
			Provider:   VectorProviderNone,
			Collection: "docsync",
		},
	}
}

// AllEmbeddingProviders returns the selectable embedding providers.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderOpenAI,
		EmbeddingProviderOllama,
		EmbeddingProviderNone,
	}
}

// DefaultEmbeddingModels maps each provider to its default model.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderOpenAI: "text-embedding-3-small",
		EmbeddingProviderOllama: "nomic-embed-text",
	}
}

// AllVectorProviders returns the selectable vector index backends.
func AllVectorProviders() []VectorProvider {
	return []VectorProvider{
		VectorProviderQdrant,
		VectorProviderMemory,
		VectorProviderNone,
	}
}
