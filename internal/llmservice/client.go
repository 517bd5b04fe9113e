package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"persona-rag/internal/config"
	"persona-rag/internal/models"
)

// Generator sends a prompt to a remote generative model and returns its
// text output verbatim.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator calls an OpenAI-compatible chat-completion endpoint.
type OpenAIGenerator struct {
	llm *openai.LLM
}

// NewOpenAIGenerator builds a generator for the configured provider.
func NewOpenAIGenerator(llmConfig *config.LLMConfig) (*OpenAIGenerator, error) {
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: initializing generation client: %v", models.ErrGenerationService, err)
	}
	return &OpenAIGenerator{llm: llm}, nil
}

// Generate runs a single-turn completion for the prompt.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := g.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrGenerationService, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", models.ErrGenerationService)
	}

	log.Debug().Int("choices", len(res.Choices)).Msg("generation complete")
	return res.Choices[0].Content, nil
}
