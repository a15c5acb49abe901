package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gemrag/internal/progress"
	"github.com/ziadkadry99/gemrag/internal/walker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Upload local documents into the file search store",
	Long: `Scans a directory for supported documents (text, markdown, PDF, office
formats), uploads them, and imports them into the current file search
store. The store is created on first ingest. Files are processed
independently: one failure does not abort the rest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("store", "", "use an existing store (remote resource name) instead of the current one")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	storeFlag, _ := cmd.Flags().GetString("store")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.DocumentsDir
	if len(args) == 1 {
		dir = args[0]
	}

	docs, err := walker.Discover(walker.DiscoverConfig{
		RootDir:     dir,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		MaxFileSize: cfg.MaxFileSizeMB << 20,
	})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		// Informational, not an error.
		fmt.Printf("No supported documents found in %s.\n", dir)
		fmt.Println("Add files (.txt, .md, .pdf, office formats, ...) and run `gemrag ingest` again.")
		return nil
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
	if store == nil {
		fmt.Printf("Creating file search store %q...\n", cfg.StoreName)
		store, err = engine.CreateStore(ctx, cfg.StoreName)
		if err != nil {
			return err
		}
		fmt.Printf("Store created: %s\n", store.RemoteName)
	} else if verbose {
		fmt.Printf("Using store %s (%s)\n", store.DisplayName, store.RemoteName)
	}

	reporter := progress.NewReporter()
	reporter.Start(len(docs))
	report, err := engine.UploadDocuments(ctx, docs, func(done, total int, name string) {
		reporter.Update(done, truncate(name, 40))
	})
	reporter.Finish()
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d of %d documents into %s.\n", report.Succeeded(), len(docs), store.DisplayName)
	for _, outcome := range report.Outcomes {
		if outcome.Err != nil {
			fmt.Printf("  failed: %s: %v\n", outcome.Document.RelPath, outcome.Err)
		} else if verbose {
			fmt.Printf("  imported: %s -> %s\n", outcome.Document.RelPath, outcome.RemoteName)
		}
	}

	if report.Succeeded() == 0 {
		return fmt.Errorf("all %d documents failed to ingest", len(docs))
	}
	return nil
}
