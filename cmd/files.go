package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage uploaded files",
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote uploaded files",
	RunE:  runFilesList,
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all files uploaded to the current store",
	RunE:  runFilesDelete,
}

func init() {
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesDeleteCmd)
	rootCmd.AddCommand(filesCmd)
}

func runFilesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, closeCatalog, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	files, err := engine.ListFiles(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No uploaded files found.")
		return nil
	}

	for _, f := range files {
		fmt.Printf("%s\t%s\t%s\n", f.Name, f.State, f.DisplayName)
	}
	return nil
}

func runFilesDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, closeCatalog, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	deleted, errs, err := engine.DeleteFiles(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d files.\n", deleted)
	for _, e := range errs {
		fmt.Printf("  %v\n", e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d files could not be deleted", len(errs))
	}
	return nil
}
