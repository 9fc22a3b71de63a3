// Package qdrant provides a VectorIndex backed by a Qdrant collection
// over gRPC.
package qdrant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// upsertBatchSize bounds points per upsert round trip.
const upsertBatchSize = 100

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a driven.VectorIndex backed by a Qdrant collection.
// Point IDs are the chunk IDs, which the chunker mints as UUIDs.
type Index struct {
	client     *qdrant.Client
	collection string

	// The collection is created lazily on the first write because the
	// vector dimension is only known once an embedding arrives.
	mu      sync.Mutex
	ensured bool
}

// New connects to Qdrant at address ("host:port") and verifies the
// server is reachable before returning.
func New(address, collection string) (*Index, error) {
	host, port, err := splitAddress(address)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	idx := &Index{
		client:     client,
		collection: collection,
	}

	if err := idx.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}

	return idx, nil
}

// healthCheckWithRetry pings Qdrant with exponential backoff.
// Initial interval 500ms, max interval 5s, max elapsed 30s.
func (i *Index) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 5 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		result, err := i.client.HealthCheck(ctx)
		if err != nil {
			return err
		}
		if result == nil || result.Title == "" {
			return fmt.Errorf("health check returned invalid response")
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

// ensureCollection creates the collection on first write, sized to the
// incoming vectors. Idempotent across restarts.
func (i *Index) ensureCollection(ctx context.Context, dimension uint64) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.ensured {
		return nil
	}

	collections, err := i.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range collections {
		if name == i.collection {
			i.ensured = true
			return nil
		}
	}

	err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: i.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", i.collection, err)
	}

	i.ensured = true
	return nil
}

// Add inserts or replaces the vector for the given chunk ID.
func (i *Index) Add(ctx context.Context, chunkID string, embedding []float32) error {
	return i.AddBatch(ctx, []string{chunkID}, [][]float32{embedding})
}

// AddBatch inserts or replaces vectors for multiple chunks.
func (i *Index) AddBatch(ctx context.Context, chunkIDs []string, embeddings [][]float32) error {
	if len(chunkIDs) != len(embeddings) {
		return fmt.Errorf("%w: %d ids for %d embeddings", domain.ErrInvalidInput, len(chunkIDs), len(embeddings))
	}
	if len(chunkIDs) == 0 {
		return nil
	}

	if err := i.ensureCollection(ctx, uint64(len(embeddings[0]))); err != nil {
		return err
	}

	for start := 0; start < len(chunkIDs); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(chunkIDs) {
			end = len(chunkIDs)
		}

		points := make([]*qdrant.PointStruct, 0, end-start)
		for j := start; j < end; j++ {
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(chunkIDs[j]),
				Vectors: qdrant.NewVectors(embeddings[j]...),
			})
		}

		if err := i.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("upsert points %d-%d: %w", start, end, err)
		}
	}

	return nil
}

// upsertWithRetry performs an upsert with exponential backoff; transient
// network failures during bulk indexing are the common case.
func (i *Index) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 5 * time.Second
	exponentialBackoff.MaxElapsedTime = 10 * time.Second

	operation := func() error {
		_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: i.collection,
			Points:         points,
		})
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

// Delete removes a vector from the index.
func (i *Index) Delete(ctx context.Context, chunkID string) error {
	return i.DeleteBatch(ctx, []string{chunkID})
}

// DeleteBatch removes multiple vectors from the index. Deleting from a
// collection that does not exist yet is a no-op.
func (i *Index) DeleteBatch(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}

	ids := make([]*qdrant.PointId, len(chunkIDs))
	for j, chunkID := range chunkIDs {
		ids[j] = qdrant.NewIDUUID(chunkID)
	}

	_, err := i.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: i.collection,
		Points:         qdrant.NewPointsSelector(ids...),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("delete points: %w", err)
	}
	return nil
}

// Search finds the k nearest neighbours to the query vector. An index
// that has never been written to returns no hits.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}

	results, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(k)),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("query points: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, result := range results {
		hits = append(hits, driven.VectorHit{
			ChunkID:    result.Id.GetUuid(),
			Similarity: float64(result.Score),
		})
	}
	return hits, nil
}

// Close closes the underlying gRPC connection.
func (i *Index) Close() error {
	if i.client != nil {
		return i.client.Close()
	}
	return nil
}

// splitAddress parses "host:port" with a default port of 6334.
func splitAddress(address string) (string, int, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", 0, fmt.Errorf("%w: empty qdrant address", domain.ErrInvalidInput)
	}

	host, portText, found := strings.Cut(address, ":")
	if !found {
		return address, 6334, nil
	}
	if host == "" {
		return "", 0, fmt.Errorf("%w: qdrant address %q has no host", domain.ErrInvalidInput, address)
	}

	port, err := strconv.Atoi(portText)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("%w: qdrant address %q has an invalid port", domain.ErrInvalidInput, address)
	}

	return host, port, nil
}
