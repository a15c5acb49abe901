package config

// DefaultModel is the generation model used for grounded queries.
const DefaultModel = "gemini-2.5-pro"

// DefaultExcludes are glob patterns excluded from document discovery by default.
var DefaultExcludes = []string{
	".git/**",
	".gemrag/**",
	"node_modules/**",
	"vendor/**",
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:         DefaultModel,
		StoreName:     "gemrag-store",
		DocumentsDir:  "documents",
		Exclude:       DefaultExcludes,
		MaxFileSizeMB: 100,
		Chunking: ChunkingConfig{
			MaxTokensPerChunk: 500,
			MaxOverlapTokens:  50,
		},
		PollIntervalMS:  2000,
		ImportTimeoutMS: 120000,
		MaxConcurrency:  4,
		DataDir:         ".gemrag",
	}
}
