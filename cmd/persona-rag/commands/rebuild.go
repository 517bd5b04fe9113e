package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"persona-rag/internal/embedding"
	"persona-rag/internal/ingest"
	"persona-rag/internal/store"
)

// NewRebuildCmd creates the rebuild command: a full ingest-from-disk that
// replaces the vector collection.
func NewRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate the vector collection from the data directory",
		Long: `Load every markdown document under the data directory, split it into
overlapping chunks, embed them and rebuild the vector collection from
scratch. Existing collection contents are replaced, not appended to.`,
		RunE: runRebuild,
	}
}

func runRebuild(cmd *cobra.Command, args []string) error {
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

	ingestor := ingest.NewIngestor(vectorStore, embedder, cfg)
	count, err := ingestor.Rebuild(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Saved %d chunks to %s.\n", count, cfg.Store.Path)
	return nil
}
