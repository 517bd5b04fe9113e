package commands

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"persona-rag/internal/config"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "persona-rag",
	Short: "Personal-document question answering service",
	Long: `persona-rag ingests a personal markdown corpus into a vector store
and answers questions in the document owner's voice via retrieval-augmented
generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env carries the provider key in dev setups.
		_ = godotenv.Load()

		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml", "Path to the yaml config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewRebuildCmd())
	rootCmd.AddCommand(NewQueryCmd())
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireProviderKey(); err != nil {
		return nil, err
	}
	return cfg, nil
}
