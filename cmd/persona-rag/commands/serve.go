package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"persona-rag/internal/api"
	"persona-rag/internal/embedding"
	"persona-rag/internal/ingest"
	"persona-rag/internal/llmservice"
	"persona-rag/internal/rag"
	"persona-rag/internal/store"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query and upload service",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	vectorStore, err := store.New(&cfg.Store)
	if err != nil {
		return err
	}
	defer vectorStore.Close()

	embedder, err := embedding.NewOpenAIEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return err
	}
	generator, err := llmservice.NewOpenAIGenerator(&cfg.GenLLM)
	if err != nil {
		return err
	}

	ragService := rag.NewRAG(vectorStore, embedder, generator, cfg)
	ingestor := ingest.NewIngestor(vectorStore, embedder, cfg)
	server := api.NewServer(ragService, ingestor, vectorStore, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
