// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-resolver/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local catalog of known records",
	Long: `Catalog manages the SQLite database searched in tier 0 before any
remote source. Records matched there by identifier resolve without a
network call.`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file.yaml...]",
	Short: "Import canonical records from YAML files into the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogImport,
}

func init() {
	catalogCmd.PersistentFlags().String("db", "", "catalog database path (default: catalog_path from config)")
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.CatalogPath
	}
	if path == "" {
		return fmt.Errorf("set catalog_path in the config or pass --db")
	}

	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	total := 0
	for _, file := range args {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file, err)
		}
		n, err := store.Import(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("importing %s: %w", file, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d record(s)\n", file, n)
		total += n
	}

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s); catalog holds %d\n", total, count)
	return nil
}

