package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ziadkadry99/gemrag/cmd"
)

func main() {
	// Load .env if present so GEMINI_API_KEY can live next to the project.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
