package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Manage file search stores",
}

var storesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote file search stores",
	RunE:  runStoresList,
}

var storesDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a file search store and its documents",
	Long:  `Deletes the store with the given remote resource name (e.g. fileSearchStores/abc123). Without an argument, the current store is deleted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStoresDelete,
}

func init() {
	storesCmd.AddCommand(storesListCmd)
	storesCmd.AddCommand(storesDeleteCmd)
	rootCmd.AddCommand(storesCmd)
}

func runStoresList(cmd *cobra.Command, args []string) error {
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

	stores, err := engine.ListStores(ctx)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		fmt.Println("No file search stores found.")
		return nil
	}

	current, err := engine.CurrentStore(ctx)
	if err != nil {
		// Listing still works; only the current-store marker is lost.
		if verbose {
			fmt.Fprintf(os.Stderr, "warning: could not determine current store: %v\n", err)
		}
		current = nil
	}
	for _, s := range stores {
		marker := "  "
		if current != nil && current.RemoteName == s.Name {
			marker = "* "
		}
		fmt.Printf("%s%s\t%s\n", marker, s.Name, s.DisplayName)
	}
	return nil
}

func runStoresDelete(cmd *cobra.Command, args []string) error {
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

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		current, err := engine.CurrentStore(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("no current store to delete; pass a store name")
		}
		name = current.RemoteName
	}

	if err := engine.DeleteStore(ctx, name); err != nil {
		return err
	}
	fmt.Printf("Deleted store %s.\n", name)
	return nil
}
