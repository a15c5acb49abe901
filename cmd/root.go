package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gemrag",
	Short: "Grounded question answering over your documents via the Gemini File Search API",
	Long: `gemrag uploads local documents into a hosted Gemini file search store
and answers natural-language questions grounded in them, with source
citations. Indexing, chunking, and retrieval all happen server-side;
gemrag is the thin client that orchestrates it.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".gemrag.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
