package config

// ChunkingConfig holds the chunking parameters forwarded to the File Search
// API at import time. No chunking happens locally; these are pass-through.
type ChunkingConfig struct {
	MaxTokensPerChunk int `yaml:"max_tokens_per_chunk" koanf:"max_tokens_per_chunk"`
	MaxOverlapTokens  int `yaml:"max_overlap_tokens" koanf:"max_overlap_tokens"`
}

// Config is the top-level gemrag configuration, corresponding to .gemrag.yml.
type Config struct {
	Model           string         `yaml:"model" koanf:"model"`
	StoreName       string         `yaml:"store_name" koanf:"store_name"`
	DocumentsDir    string         `yaml:"documents_dir" koanf:"documents_dir"`
	Include         []string       `yaml:"include" koanf:"include"`
	Exclude         []string       `yaml:"exclude" koanf:"exclude"`
	MaxFileSizeMB   int64          `yaml:"max_file_size_mb" koanf:"max_file_size_mb"`
	Chunking        ChunkingConfig `yaml:"chunking" koanf:"chunking"`
	PollIntervalMS  int            `yaml:"poll_interval_ms" koanf:"poll_interval_ms"`
	ImportTimeoutMS int            `yaml:"import_timeout_ms" koanf:"import_timeout_ms"`
	MaxConcurrency  int            `yaml:"max_concurrency" koanf:"max_concurrency"`
	DataDir         string         `yaml:"data_dir" koanf:"data_dir"`
}
