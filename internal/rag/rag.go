package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"persona-rag/internal/config"
	"persona-rag/internal/embedding"
	"persona-rag/internal/llmservice"
	"persona-rag/internal/models"
	"persona-rag/internal/store"
)

// RAG runs the query pipeline: embed the question, search the store,
// compose the persona prompt, generate the answer.
type RAG struct {
	store     store.VectorStore
	embedder  embedding.Embedder
	generator llmservice.Generator
	cfg       *config.Config
}

func NewRAG(vectorStore store.VectorStore, embedder embedding.Embedder, generator llmservice.Generator, cfg *config.Config) *RAG {
	return &RAG{store: vectorStore, embedder: embedder, generator: generator, cfg: cfg}
}

// Retrieve embeds queryText and returns the k nearest chunks with their
// distance scores, nearest first.
func (r *RAG) Retrieve(ctx context.Context, queryText string, k int) ([]models.SearchResult, error) {
	queryVector, err := r.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}
	results, err := r.store.Search(ctx, queryVector, k)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("results", len(results)).Str("query", queryText).Msg("retrieved context")
	return results, nil
}

// Query answers the question in the persona's voice, grounded on retrieved
// context. The optional tone steers the answer's style.
func (r *RAG) Query(ctx context.Context, queryText, tone string) (models.Answer, error) {
	if strings.TrimSpace(queryText) == "" {
		return models.Answer{}, fmt.Errorf("%w: query must not be empty", models.ErrValidation)
	}

	results, err := r.Retrieve(ctx, queryText, r.cfg.RAG.TopK)
	if err != nil {
		return models.Answer{}, err
	}

	chunks := make([]models.Chunk, 0, len(results))
	sources := make([]string, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, res.Chunk)
		sources = append(sources, res.Chunk.Source)
	}

	prompt := ComposePrompt(r.cfg.RAG.Persona, tone, chunks, queryText)
	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return models.Answer{}, err
	}

	return models.Answer{Text: text, Sources: sources}, nil
}
