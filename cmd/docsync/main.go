// Package main wires the driven adapters to the core services and
// hands the result to the CLI command tree.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docsync/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/docsync/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docsync/internal/adapters/driven/events/logpub"
	"github.com/custodia-labs/docsync/internal/adapters/driven/hooks"
	"github.com/custodia-labs/docsync/internal/adapters/driven/notify"
	"github.com/custodia-labs/docsync/internal/adapters/driven/registry/static"
	"github.com/custodia-labs/docsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docsync/internal/adapters/driven/storage/sqlite"
	vecmemory "github.com/custodia-labs/docsync/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docsync/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/docsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/core/services"
	"github.com/custodia-labs/docsync/internal/linkgraph"
	"github.com/custodia-labs/docsync/internal/logger"
	"github.com/custodia-labs/docsync/internal/postprocessors"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// keyWatchExtraRoots lists additional watched roots in the config file.
// Each extra root runs its own watch engine under its own tenant key.
const keyWatchExtraRoots = "watch.extra_roots"

// keyCustomDocTypes lists user-defined document types in the config
// file. Each listed name may carry doctype.<name>.required and
// doctype.<name>.optional field lists.
const keyCustomDocTypes = "doctype.custom"

func main() {
	// Load .env file if present (local development), ignore if missing
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Cancel on SIGTERM/SIGINT so watch loops and the TUI unwind cleanly
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 1. Configuration
	configStore, err := file.NewConfigStore(os.Getenv("DOCSYNC_CONFIG_DIR"))
	if err != nil {
		log.Fatalf("failed to open config store: %v", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// 2. Tenant identity for the primary root
	root := settings.Watch.Root
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			log.Fatalf("failed to resolve working directory: %v", err)
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		log.Fatalf("failed to resolve watch root: %v", err)
	}
	project := settings.Project.Name
	if project == "" {
		project = filepath.Base(absRoot)
	}
	branch := settings.Project.Branch
	tenantKey := domain.NewTenantKey(project, branch, absRoot)

	// 3. Metadata storage: SQLite by default, in-memory when ephemeral
	var (
		docStore driven.DocumentStore
		history  driven.ReconcileHistoryStore
	)
	if getEnv("DOCSYNC_EPHEMERAL", "false") == "true" {
		docStore = memory.NewDocumentStore()
		history = memory.NewHistoryStore()
	} else {
		store, err := sqlite.NewStore(os.Getenv("DOCSYNC_DATA_DIR"))
		if err != nil {
			log.Fatalf("failed to open metadata store: %v", err)
		}
		defer store.Close()
		docStore = store.DocumentStore()
		history = store.HistoryStore()
	}

	// 4. Embedding provider per settings (nil disables embedding).
	// A broken provider degrades to none so `docsync settings` stays
	// reachable to repair it.
	embedder, err := buildEmbedder(settings.Embedding)
	if err != nil {
		log.Printf("embedding provider unavailable, indexing without vectors: %v", err)
		embedder = nil
	}

	// 5. Vector index per settings (nil disables semantic search)
	vectors, err := buildVectorIndex(ctx, settings.Vector, docStore, tenantKey)
	if err != nil {
		log.Printf("vector index unavailable, semantic search disabled: %v", err)
		vectors = nil
	}
	if vectors != nil {
		defer vectors.Close()
	}

	// 6. Core services for the primary root. The doc type registry is
	// shared by every engine; custom types come from the config file.
	registry := buildRegistry(configStore)
	events := logpub.NewPublisher()
	references := services.NewReferenceService(absRoot, linkgraph.New(), nil)
	supersession := services.NewSupersessionService(tenantKey, docStore, events)
	indexer := services.NewIndexer(
		absRoot,
		tenantKey,
		docStore,
		registry,
		postprocessors.DefaultPipeline(settings.Chunk),
		embedder,
		vectors,
		hooks.NewNoop(),
		references,
		supersession,
	)
	gate := services.NewGate()
	reconciler := services.NewReconciler(
		absRoot,
		tenantKey,
		settings.Watch.Include,
		settings.Watch.Exclude,
		indexer,
		docStore,
		history,
		gate,
	)
	scheduler := services.NewScheduler(settings.Watch.ReconcileInterval, tenantKey, reconciler, history)

	// 7. Watch engines, one per configured root
	newWatcher := func() (driven.FileWatcher, error) { return notify.New() }
	primarySettings := settings.Watch
	primarySettings.Root = absRoot
	engines := []driving.WatchService{
		services.NewWatchService(primarySettings, newWatcher, indexer, gate),
	}
	for _, extra := range configStore.GetStringSlice(keyWatchExtraRoots) {
		extraRoot, err := filepath.Abs(extra)
		if err != nil {
			log.Fatalf("failed to resolve extra root %q: %v", extra, err)
		}
		extraKey := domain.NewTenantKey(project, branch, extraRoot)
		extraIndexer := services.NewIndexer(
			extraRoot,
			extraKey,
			docStore,
			registry,
			postprocessors.DefaultPipeline(settings.Chunk),
			embedder,
			vectors,
			hooks.NewNoop(),
			services.NewReferenceService(extraRoot, linkgraph.New(), nil),
			services.NewSupersessionService(extraKey, docStore, events),
		)
		extraSettings := settings.Watch
		extraSettings.Root = extraRoot
		engines = append(engines, services.NewWatchService(extraSettings, newWatcher, extraIndexer, services.NewGate()))
	}
	var watch driving.WatchService = engines[0]
	if len(engines) > 1 {
		watch = newMultiWatch(engines...)
	}

	// 8. Command tree
	cli.Configure(cli.Services{
		Watch:        watch,
		Reconcile:    reconciler,
		Index:        indexer,
		Search:       services.NewSearchService(docStore, vectors, embedder, supersession),
		References:   references,
		Supersession: supersession,
		Documents:    services.NewDocumentService(absRoot, tenantKey, docStore, events, references, supersession),
		Settings:     settingsService,
		Scheduler:    scheduler,
		Actions:      services.NewResultActionService(absRoot),
	})
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

// buildRegistry seeds the built-in document types and registers the
// custom types the config file declares.
func buildRegistry(cfg driven.ConfigStore) *static.Registry {
	registry := static.NewRegistry()
	for _, name := range cfg.GetStringSlice(keyCustomDocTypes) {
		err := registry.Register(domain.DocType{
			Name:           name,
			RequiredFields: cfg.GetStringSlice("doctype." + name + ".required"),
			OptionalFields: cfg.GetStringSlice("doctype." + name + ".optional"),
		})
		if err != nil {
			log.Printf("skipping custom document type %q: %v", name, err)
		}
	}
	return registry
}

// buildEmbedder constructs the embedding service the settings name.
// Returns nil when embeddings are disabled.
func buildEmbedder(cfg domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.EmbeddingProviderOpenAI:
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case domain.EmbeddingProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		return nil, nil
	}
}

// buildVectorIndex constructs the vector index the settings name.
// An in-memory index is rehydrated from stored chunk embeddings so
// search survives restarts. Returns nil when the index is disabled.
func buildVectorIndex(ctx context.Context, cfg domain.VectorSettings, docStore driven.DocumentStore, tenantKey string) (driven.VectorIndex, error) {
	switch cfg.Provider {
	case domain.VectorProviderQdrant:
		address := cfg.Address
		if address == "" {
			address = "localhost:6334"
		}
		return qdrant.New(address, cfg.Collection)
	case domain.VectorProviderMemory:
		index := vecmemory.NewIndex()
		count, err := hydrateVectors(ctx, index, docStore, tenantKey)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			logger.Info("hydrated %d vectors from the metadata store", count)
		}
		return index, nil
	default:
		return nil, nil
	}
}

// hydrateVectors loads every stored chunk embedding for the tenant
// into the index and returns how many vectors it added.
func hydrateVectors(ctx context.Context, index driven.VectorIndex, docStore driven.DocumentStore, tenantKey string) (int, error) {
	docs, err := docStore.GetAllForTenant(ctx, tenantKey)
	if err != nil {
		return 0, err
	}
	var (
		ids        []string
		embeddings [][]float32
	)
	for _, doc := range docs {
		chunks, err := docStore.GetChunks(ctx, doc.ID)
		if err != nil {
			return 0, err
		}
		for _, chunk := range chunks {
			if len(chunk.Embedding) == 0 {
				continue
			}
			ids = append(ids, chunk.ID)
			embeddings = append(embeddings, chunk.Embedding)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := index.AddBatch(ctx, ids, embeddings); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// multiWatch fans WatchService calls out to one engine per root.
type multiWatch struct {
	engines []driving.WatchService
}

var _ driving.WatchService = (*multiWatch)(nil)

func newMultiWatch(engines ...driving.WatchService) *multiWatch {
	return &multiWatch{engines: engines}
}

// Start registers every engine concurrently. If any registration
// fails the engines that did start are stopped again.
func (m *multiWatch) Start(ctx context.Context) error {
	var g errgroup.Group
	for _, engine := range m.engines {
		g.Go(func() error { return engine.Start(ctx) })
	}
	if err := g.Wait(); err != nil {
		_ = m.Stop()
		return err
	}
	return nil
}

// Stop halts every engine and returns the first error.
func (m *multiWatch) Stop() error {
	var firstErr error
	for _, engine := range m.engines {
		if err := engine.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Active reports whether any engine is running.
func (m *multiWatch) Active() bool {
	for _, engine := range m.engines {
		if engine.Active() {
			return true
		}
	}
	return false
}

// Flush dispatches pending changes on every engine.
func (m *multiWatch) Flush(ctx context.Context) {
	for _, engine := range m.engines {
		engine.Flush(ctx)
	}
}

// Status reports the primary root with pending counts summed across
// all engines.
func (m *multiWatch) Status() driving.WatchStatus {
	status := m.engines[0].Status()
	for _, engine := range m.engines[1:] {
		status.Pending += engine.Status().Pending
	}
	status.Active = m.Active()
	return status
}

// getEnv returns the environment value for key, or fallback when unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
