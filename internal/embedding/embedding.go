package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"persona-rag/internal/config"
	"persona-rag/internal/models"
)

// Embedder converts text into fixed-dimension vectors. The store and the
// query path must use the same implementation, or distances are meaningless.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder calls an OpenAI-compatible embedding endpoint.
type OpenAIEmbedder struct {
	impl *embeddings.EmbedderImpl
}

// NewOpenAIEmbedder builds an embedder for the configured provider.
func NewOpenAIEmbedder(llmConfig *config.LLMConfig) (*OpenAIEmbedder, error) {
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithEmbeddingModel(llmConfig.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: initializing embedding client: %v", models.ErrEmbeddingService, err)
	}
	impl, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("%w: creating embedder: %v", models.ErrEmbeddingService, err)
	}
	return &OpenAIEmbedder{impl: impl}, nil
}

// EmbedDocuments embeds a batch of chunk contents, one vector per text.
func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %d texts: %v", models.ErrEmbeddingService, len(texts), err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", models.ErrEmbeddingService, len(vectors), len(texts))
	}
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", models.ErrEmbeddingService, err)
	}
	return vector, nil
}
