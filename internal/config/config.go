package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GEMRAG_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: GEMRAG_MODEL -> model, etc.
	if err := k.Load(env.Provider("GEMRAG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GEMRAG_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.StoreName == "" {
		return fmt.Errorf("store_name is required")
	}

	if c.DocumentsDir == "" {
		return fmt.Errorf("documents_dir is required")
	}

	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}

	if c.Chunking.MaxTokensPerChunk <= 0 {
		return fmt.Errorf("chunking.max_tokens_per_chunk must be positive")
	}

	if c.Chunking.MaxOverlapTokens < 0 {
		return fmt.Errorf("chunking.max_overlap_tokens must be non-negative")
	}

	if c.Chunking.MaxOverlapTokens >= c.Chunking.MaxTokensPerChunk {
		return fmt.Errorf("chunking.max_overlap_tokens must be smaller than max_tokens_per_chunk")
	}

	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive")
	}

	if c.ImportTimeoutMS <= 0 {
		return fmt.Errorf("import_timeout_ms must be positive")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	return nil
}

// APIKey returns the Gemini API key from the environment. GEMINI_API_KEY is
// the primary variable; GOOGLE_API_KEY is accepted as a fallback since both
// are honored by Google's own tooling.
func APIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY not found in environment (set it in the environment or a .env file)")
}
