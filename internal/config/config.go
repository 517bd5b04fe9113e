package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"persona-rag/internal/models"
)

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// LLMConfig points at an OpenAI-compatible endpoint for one model.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

// RAGConfig holds the pipeline parameters.
type RAGConfig struct {
	DataDir      string `yaml:"data_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Persona      string `yaml:"persona"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Type        string `yaml:"type"` // "chromem" or "postgres"
	Path        string `yaml:"path"`
	Collection  string `yaml:"collection"`
	PostgresDSN string `yaml:"postgres_dsn"`
	PostgresKey string `yaml:"postgres_key"`
	Debug       bool   `yaml:"debug"`
	// VectorSize is the pgvector column dimensionality. It must match the
	// embedding model's output dimension; the chromem backend derives the
	// dimension from the stored vectors and ignores this.
	VectorSize int `yaml:"vector_size"`
}

type Config struct {
	Server   ServerConfig `yaml:"server"`
	RAG      RAGConfig    `yaml:"rag"`
	Store    StoreConfig  `yaml:"store"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	GenLLM   LLMConfig    `yaml:"gen_llm"`
}

// LoadConfig reads the yaml config at path, applies defaults and
// environment overrides, and validates the result. A missing file is not
// an error; defaults plus environment carry a dev setup.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", models.ErrConfiguration, path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrConfiguration, path, err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if len(cfg.Server.AllowOrigins) == 0 {
		cfg.Server.AllowOrigins = []string{"*"}
	}
	if cfg.RAG.DataDir == "" {
		cfg.RAG.DataDir = "./data"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 100
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = models.DefaultTopK
	}
	if cfg.RAG.Persona == "" {
		cfg.RAG.Persona = "the document owner"
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "chromem"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./chromem"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "personal_docs"
	}
	if cfg.Store.VectorSize == 0 {
		// text-embedding-3-small, the default embedding model.
		cfg.Store.VectorSize = 1536
	}
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "text-embedding-3-small"
	}
	if cfg.GenLLM.BaseURL == "" {
		cfg.GenLLM.BaseURL = cfg.EmbedLLM.BaseURL
	}
	if cfg.GenLLM.Model == "" {
		cfg.GenLLM.Model = "google/gemini-flash-1.5"
	}
}

// applyEnv lets the environment override the provider credential and the
// CORS allow-list, matching the deployment surface of the service.
func applyEnv(cfg *Config) {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		cfg.EmbedLLM.Key = key
		cfg.GenLLM.Key = key
	}
	if origins := os.Getenv("ALLOW_ORIGIN"); origins != "" {
		var list []string
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				list = append(list, o)
			}
		}
		if len(list) > 0 {
			cfg.Server.AllowOrigins = list
		}
	}
}

// Validate fails fast on configuration that would corrupt the pipeline.
func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", models.ErrConfiguration, c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk_overlap must not be negative, got %d", models.ErrConfiguration, c.RAG.ChunkOverlap)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap (%d) must be smaller than chunk_size (%d)",
			models.ErrConfiguration, c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", models.ErrConfiguration, c.RAG.TopK)
	}
	switch c.Store.Type {
	case "chromem", "postgres":
	default:
		return fmt.Errorf("%w: unknown store type %q", models.ErrConfiguration, c.Store.Type)
	}
	if c.Store.VectorSize <= 0 {
		return fmt.Errorf("%w: vector_size must be positive, got %d", models.ErrConfiguration, c.Store.VectorSize)
	}
	return nil
}

// RequireProviderKey reports a configuration error when no credential for
// the embedding/generation provider is set. The serve and CLI paths call
// this once at startup and report the error; nothing exits on its behalf.
func (c *Config) RequireProviderKey() error {
	if c.EmbedLLM.Key == "" || c.GenLLM.Key == "" {
		return fmt.Errorf("%w: OPENROUTER_API_KEY is not set", models.ErrConfiguration)
	}
	return nil
}
