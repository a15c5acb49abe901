package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gemrag/internal/chat"
	"github.com/ziadkadry99/gemrag/internal/rag"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question/answer session",
	Long:  `Reads questions from the terminal and answers each one grounded in the current file search store. Type quit, exit, or q to leave.`,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().String("store", "", "chat against a specific store (remote resource name)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	storeFlag, _ := cmd.Flags().GetString("store")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, closeCatalog, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	if err := selectStore(ctx, engine, storeFlag); err != nil {
		return err
	}

	store, err := engine.CurrentStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		fmt.Printf("Chatting with store %s. Type your questions ('quit' to exit).\n\n", store.DisplayName)
	} else {
		fmt.Println("No store exists yet; run `gemrag ingest` first. Questions will fail until then.")
	}

	prompt := promptui.Prompt{Label: "Question"}
	loop := &chat.Loop{
		Prompt: prompt.Run,
		Query: func(ctx context.Context, question string) (*rag.Answer, error) {
			return engine.Query(ctx, question, nil)
		},
		Out: os.Stdout,
	}

	if err := loop.Run(ctx); err != nil {
		return err
	}
	fmt.Println("Goodbye!")
	return nil
}
