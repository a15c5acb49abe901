package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/gemrag/internal/catalog"
	"github.com/ziadkadry99/gemrag/internal/config"
	"github.com/ziadkadry99/gemrag/internal/filesearch"
	"github.com/ziadkadry99/gemrag/internal/rag"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `gemrag init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newEngine wires the engine from config: API client, local catalog, and
// orchestration options. The returned closer releases the catalog.
func newEngine(cfg *config.Config) (*rag.Engine, func() error, error) {
	apiKey, err := config.APIKey()
	if err != nil {
		return nil, nil, err
	}

	client := filesearch.NewClient(apiKey)

	cat, err := catalog.Open(filepath.Join(cfg.DataDir, "catalog.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}

	engine := rag.NewEngine(client, cat, rag.Options{
		Model:          cfg.Model,
		Chunking:       filesearch.NewChunkingConfig(cfg.Chunking.MaxTokensPerChunk, cfg.Chunking.MaxOverlapTokens),
		PollInterval:   time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		ImportTimeout:  time.Duration(cfg.ImportTimeoutMS) * time.Millisecond,
		MaxConcurrency: cfg.MaxConcurrency,
	})
	return engine, cat.Close, nil
}

// selectStore switches the engine to the store named by --store when given.
func selectStore(ctx context.Context, engine *rag.Engine, storeName string) error {
	if storeName == "" {
		return nil
	}
	_, err := engine.UseStore(ctx, storeName)
	return err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
