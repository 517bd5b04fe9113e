package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"persona-rag/internal/embedding"
	"persona-rag/internal/helper"
	"persona-rag/internal/llmservice"
	"persona-rag/internal/rag"
	"persona-rag/internal/store"
)

var queryTone string

// NewQueryCmd creates the query command.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question against the ingested corpus",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}
	cmd.Flags().StringVar(&queryTone, "tone", "", "Desired tone for the answer (e.g. formal, casual)")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
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
	answer, err := ragService.Query(context.Background(), args[0], queryTone)
	if err != nil {
		return err
	}

	fmt.Printf("Response: %s\n", answer.Text)
	fmt.Printf("\nSources: %s\n", helper.PrettyJSON(answer.Sources))
	return nil
}
