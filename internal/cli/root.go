package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"regindex/config"
	"regindex/internal/adapter/embedding"
	"regindex/internal/port"
	"regindex/internal/usecase"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "regindex",
	Short: "Semantic registry index - discover servers and agents by natural-language query",
	Long: `regindex maintains a semantic index over a registry of tool-bearing
servers and autonomous agents: every registered entity is embedded into a
vector and kept searchable alongside its metadata.

Example usage:
  regindex upsert -f weather.yaml     # Register or update an entity
  regindex search -q "forecasts"      # Search servers, tools, and agents
  regindex sync ./registry            # Bulk-load descriptor files
  regindex status                     # Show index state`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.Logging.SlogLevel(),
		})))

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./regindex.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "data directory (default is current directory)")
}

// newEmbedder builds the configured embedding backend.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	e := cfg.Embedding
	switch e.Provider {
	case "openai":
		baseURL := e.BaseURL
		if baseURL == "" {
			return embedding.NewOpenAIEmbedder(e.APIKeyEnv, e.Model, e.Dimension)
		}
		return embedding.NewOpenAICompatibleEmbedder(e.APIKeyEnv, e.Model, baseURL, e.Dimension)
	case "jina":
		return embedding.NewJinaEmbedder(e.APIKeyEnv, e.Model, e.Dimension)
	case "ollama":
		return embedding.NewOllamaEmbedder(e.Model, e.BaseURL, e.Dimension)
	case "local":
		return embedding.NewLocalEmbedder(e.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", e.Provider)
	}
}

// openService wires the index engine against the data directory.
func openService() (*usecase.Service, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = rootDir
	}
	if err := config.EnsureDataDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	opts := usecase.ServiceOptions{
		CacheSize: cfg.Search.CacheSize,
		CacheTTL:  time.Duration(cfg.Search.CacheTTLSeconds) * time.Second,
	}
	return usecase.NewService(config.IndexDBPath(dataDir), embedder, opts, slog.Default())
}
