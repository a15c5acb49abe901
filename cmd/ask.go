package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gemrag/internal/rag"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single grounded question against the file search store",
	Long:  `Sends one natural-language question to the model with the file search store attached and prints the answer plus its source citations.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	askCmd.Flags().String("store", "", "query a specific store (remote resource name)")
	askCmd.Flags().Int("max-tokens", 0, "answer length hint forwarded to the model")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	jsonOutput, _ := cmd.Flags().GetBool("json")
	storeFlag, _ := cmd.Flags().GetString("store")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

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

	var opts *rag.QueryOptions
	if maxTokens > 0 {
		opts = &rag.QueryOptions{MaxOutputTokens: maxTokens}
	}

	answer, err := engine.Query(ctx, question, opts)
	if err != nil {
		var seqErr *rag.SequencingError
		if errors.As(err, &seqErr) {
			return fmt.Errorf("%s", seqErr.Guidance)
		}
		return err
	}

	if jsonOutput {
		return printAnswerJSON(answer)
	}

	fmt.Print(rag.FormatAnswer(answer))
	return nil
}

type citationJSON struct {
	Title string `json:"title"`
	URI   string `json:"uri,omitempty"`
}

type answerJSON struct {
	Answer  string         `json:"answer"`
	Sources []citationJSON `json:"sources"`
}

func printAnswerJSON(answer *rag.Answer) error {
	out := answerJSON{Answer: answer.Text, Sources: []citationJSON{}}
	for _, c := range answer.Citations {
		out.Sources = append(out.Sources, citationJSON{Title: c.Title, URI: c.URI})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
