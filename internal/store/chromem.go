package store

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"persona-rag/internal/helper"
	"persona-rag/internal/models"
)

const compress = false

// ChromemStore keeps chunks and vectors in a chromem-go collection backed
// by a directory on disk. A RWMutex serializes the destructive writes
// (Rebuild, Append) against concurrent searches so readers never observe a
// partially deleted or partially inserted collection.
type ChromemStore struct {
	mu             sync.RWMutex
	db             *chromem.DB
	collectionName string
	dbPath         string
}

// NewChromemStore opens (or creates) the persistent database at dbPath.
func NewChromemStore(dbPath, collectionName string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(dbPath, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %v", err)
	}
	return &ChromemStore{db: db, collectionName: collectionName, dbPath: dbPath}, nil
}

// NewInMemoryChromemStore builds a store without persistence. Used by
// tests and throwaway runs.
func NewInMemoryChromemStore(collectionName string) *ChromemStore {
	return &ChromemStore{db: chromem.NewDB(), collectionName: collectionName, dbPath: "(memory)"}
}

// Rebuild drops the collection if it exists (a missing collection is a
// no-op) and recreates it with the given chunks. Not transactional; see
// the interface note.
func (s *ChromemStore) Rebuild(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	docs, err := toChromemDocs(chunks, vectors)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.GetCollection(s.collectionName, nil) != nil {
		log.Debug().Str("collection", s.collectionName).Msg("clearing old collection")
		if err := s.db.DeleteCollection(s.collectionName); err != nil {
			return fmt.Errorf("failed to drop collection: %v", err)
		}
	}

	c, err := s.db.CreateCollection(s.collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create collection: %v", err)
	}
	if len(docs) == 0 {
		return nil
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	log.Info().Str("collection", s.collectionName).Int("chunks", len(docs)).Msg("rebuilt collection")
	return nil
}

// Append inserts chunks into the existing collection.
func (s *ChromemStore) Append(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	docs, err := toChromemDocs(chunks, vectors)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.db.GetCollection(s.collectionName, nil)
	if c == nil {
		return fmt.Errorf("%w: %q at %s", models.ErrCollectionNotFound, s.collectionName, s.dbPath)
	}
	if len(docs) == 0 {
		return nil
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	log.Info().Str("collection", s.collectionName).Int("chunks", len(docs)).Msg("appended to collection")
	return nil
}

// Search returns the k nearest chunks to queryVector, nearest first. When
// the collection holds fewer than k entries, all of them are returned.
func (s *ChromemStore) Search(ctx context.Context, queryVector []float32, k int) ([]models.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.db.GetCollection(s.collectionName, nil)
	if c == nil {
		return nil, fmt.Errorf("%w: %q at %s", models.ErrCollectionNotFound, s.collectionName, s.dbPath)
	}

	// chromem rejects queries asking for more results than stored documents.
	if count := c.Count(); count < k {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := c.QueryEmbedding(ctx, queryVector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	out := make([]models.SearchResult, 0, len(results))
	for _, res := range results {
		startIndex, _ := strconv.Atoi(res.Metadata[MetaStartIndex])
		out = append(out, models.SearchResult{
			Chunk: models.Chunk{
				Content:    res.Content,
				Source:     res.Metadata[MetaSource],
				Category:   models.Category(res.Metadata[MetaCategory]),
				StartIndex: startIndex,
			},
			// chromem reports cosine similarity, descending. Flip it so
			// both backends rank ascending by distance.
			Distance: 1 - res.Similarity,
		})
	}
	return out, nil
}

// Count returns the number of stored chunks.
func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.db.GetCollection(s.collectionName, nil)
	if c == nil {
		return 0, fmt.Errorf("%w: %q at %s", models.ErrCollectionNotFound, s.collectionName, s.dbPath)
	}
	return c.Count(), nil
}

// Ready reports whether the collection has been created.
func (s *ChromemStore) Ready(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db.GetCollection(s.collectionName, nil) == nil {
		return fmt.Errorf("%w: %q at %s, run a rebuild first", models.ErrCollectionNotFound, s.collectionName, s.dbPath)
	}
	return nil
}

// Close is a no-op; chromem persists on every write.
func (s *ChromemStore) Close() error { return nil }

func toChromemDocs(chunks []models.Chunk, vectors [][]float32) ([]chromem.Document, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		id, err := helper.GenerateUUID()
		if err != nil {
			return nil, err
		}
		docs = append(docs, chromem.Document{
			ID:      id,
			Content: chunk.Content,
			Metadata: map[string]string{
				MetaSource:     chunk.Source,
				MetaCategory:   string(chunk.Category),
				MetaStartIndex: strconv.Itoa(chunk.StartIndex),
			},
			Embedding: vectors[i],
		})
	}
	return docs, nil
}
