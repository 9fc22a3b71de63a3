package postprocessors

import (
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/postprocessors/chunker"
	"github.com/custodia-labs/docsync/internal/postprocessors/headerpath"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("headerpath", buildHeaderPath)
}

// DefaultPipeline builds the standard pipeline from chunk settings:
// the chunker followed by header path labelling.
func DefaultPipeline(settings domain.ChunkSettings) *Pipeline {
	return NewPipeline(
		chunker.New(
			chunker.WithChunkSize(settings.Size),
			chunker.WithOverlap(settings.Overlap),
			chunker.WithMinSize(settings.MinSize),
			chunker.WithBoundaries(settings.RespectBoundaries),
		),
		headerpath.New(),
	)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
//   - min_size (int): Minimum chunk length before merging (default: 100)
//   - respect_boundaries (bool): Split on paragraph boundaries (default: true)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
		if minSize := getIntFromConfig(cfg, "min_size"); minSize > 0 {
			opts = append(opts, chunker.WithMinSize(minSize))
		}
		if respect, ok := cfg["respect_boundaries"].(bool); ok {
			opts = append(opts, chunker.WithBoundaries(respect))
		}
	}

	return chunker.New(opts...), nil
}

// buildHeaderPath creates a header path processor. It takes no config.
func buildHeaderPath(_ map[string]any) (driven.PostProcessor, error) {
	return headerpath.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
