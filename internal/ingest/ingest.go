package ingest

import (
	"context"

	"github.com/rs/zerolog/log"

	"persona-rag/internal/chunker"
	"persona-rag/internal/config"
	"persona-rag/internal/embedding"
	"persona-rag/internal/loader"
	"persona-rag/internal/models"
	"persona-rag/internal/store"
)

// Ingestor turns documents into embedded chunks in the vector store.
type Ingestor struct {
	store    store.VectorStore
	embedder embedding.Embedder
	cfg      *config.Config
}

func NewIngestor(vectorStore store.VectorStore, embedder embedding.Embedder, cfg *config.Config) *Ingestor {
	return &Ingestor{store: vectorStore, embedder: embedder, cfg: cfg}
}

// Rebuild loads the whole corpus from disk, chunks and embeds it, and
// replaces the collection. Running it twice over the same corpus yields
// the same collection; it never accumulates.
func (i *Ingestor) Rebuild(ctx context.Context) (int, error) {
	documents, err := loader.LoadCorpus(i.cfg.RAG.DataDir)
	if err != nil {
		return 0, err
	}
	log.Info().Int("documents", len(documents)).Str("data_dir", i.cfg.RAG.DataDir).Msg("loaded corpus")

	chunks, err := chunker.Split(documents, i.cfg.RAG.ChunkSize, i.cfg.RAG.ChunkOverlap)
	if err != nil {
		return 0, err
	}
	log.Info().Int("documents", len(documents)).Int("chunks", len(chunks)).Msg("split corpus")

	vectors, err := i.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := i.store.Rebuild(ctx, chunks, vectors); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// AddFile chunks and embeds a single file and appends it to the existing
// collection without touching prior entries.
func (i *Ingestor) AddFile(ctx context.Context, path string, category models.Category) (int, error) {
	doc, err := loader.LoadFile(path, category)
	if err != nil {
		return 0, err
	}

	chunks, err := chunker.Split([]models.Document{doc}, i.cfg.RAG.ChunkSize, i.cfg.RAG.ChunkOverlap)
	if err != nil {
		return 0, err
	}

	vectors, err := i.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := i.store.Append(ctx, chunks, vectors); err != nil {
		return 0, err
	}
	log.Info().Str("file", path).Str("category", string(category)).Int("chunks", len(chunks)).Msg("added file")
	return len(chunks), nil
}

func (i *Ingestor) embedChunks(ctx context.Context, chunks []models.Chunk) ([][]float32, error) {
	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Content)
	}
	return i.embedder.EmbedDocuments(ctx, texts)
}
