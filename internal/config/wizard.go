package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .gemrag.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to gemrag! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Generation model.
	modelPrompt := promptui.Select{
		Label: "Select generation model",
		Items: []string{"gemini-2.5-pro", "gemini-2.5-flash", "gemini-2.0-flash"},
	}
	_, model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 2. Store display name.
	storePrompt := promptui.Prompt{
		Label:   "File search store name",
		Default: cfg.StoreName,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("store name must not be empty")
			}
			return nil
		},
	}
	storeName, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store name: %w", err)
	}
	cfg.StoreName = storeName

	// 3. Documents directory.
	dirPrompt := promptui.Prompt{
		Label:   "Documents directory",
		Default: cfg.DocumentsDir,
	}
	docsDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("documents directory: %w", err)
	}
	cfg.DocumentsDir = docsDir

	if _, err := os.Stat(docsDir); os.IsNotExist(err) {
		fmt.Printf("Note: %s does not exist yet. Create it and add your documents before running `gemrag ingest`.\n", docsDir)
	}

	// 4. Chunking parameters.
	chunkPrompt := promptui.Prompt{
		Label:    "Max tokens per chunk",
		Default:  strconv.Itoa(cfg.Chunking.MaxTokensPerChunk),
		Validate: validatePositiveInt,
	}
	chunkStr, err := chunkPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chunk size: %w", err)
	}
	cfg.Chunking.MaxTokensPerChunk, _ = strconv.Atoi(chunkStr)

	overlapPrompt := promptui.Prompt{
		Label:    "Max overlap tokens",
		Default:  strconv.Itoa(cfg.Chunking.MaxOverlapTokens),
		Validate: validateNonNegativeInt,
	}
	overlapStr, err := overlapPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chunk overlap: %w", err)
	}
	cfg.Chunking.MaxOverlapTokens, _ = strconv.Atoi(overlapStr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(".gemrag.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration saved to .gemrag.yml")
	if _, err := APIKey(); err != nil {
		fmt.Println("Remember to set GEMINI_API_KEY before running gemrag.")
	}

	return cfg, nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}
