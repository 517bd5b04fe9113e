package store

import (
	"context"
	"fmt"

	"persona-rag/internal/config"
	"persona-rag/internal/models"
)

// Metadata keys attached to every stored chunk.
const (
	MetaSource     = "source"
	MetaCategory   = "category"
	MetaStartIndex = "start_index"
)

// VectorStore persists chunks with their embedding vectors and answers
// nearest-neighbor searches. Results rank ascending by distance.
//
// Rebuild drops the collection if present and recreates it from scratch;
// it is not transactional: a crash between the drop and the reinsert
// leaves the collection empty. Append requires the collection to exist
// and fails with models.ErrCollectionNotFound otherwise.
type VectorStore interface {
	Rebuild(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error
	Append(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, k int) ([]models.SearchResult, error)
	Count(ctx context.Context) (int, error)
	// Ready reports whether the collection exists and can be queried.
	Ready(ctx context.Context) error
	Close() error
}

// New builds the configured store backend.
func New(storeCfg *config.StoreConfig) (VectorStore, error) {
	switch storeCfg.Type {
	case "chromem":
		return NewChromemStore(storeCfg.Path, storeCfg.Collection)
	case "postgres":
		return NewPostgresStore(storeCfg)
	default:
		return nil, fmt.Errorf("%w: unknown store type %q", models.ErrConfiguration, storeCfg.Type)
	}
}
