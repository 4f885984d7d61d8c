package main

import (
	"fmt"
	"io"

	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/catalogsource"
	"github.com/open-sspm/connector-catalog/internal/config"
	"github.com/spf13/cobra"
)

var validateCatalogCmd = &cobra.Command{
	Use:   "validate-catalog [path]",
	Short: "Validate a catalog file without touching the database.",
	Long:  "Validate a catalog file without touching the database. The path defaults to CATALOG_PATH, then to the embedded seed catalog.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.LoadOptionalDB()
			if err != nil {
				return err
			}
			path = cfg.CatalogPath
		}
		return runValidateCatalog(cmd.OutOrStdout(), path)
	},
}

func runValidateCatalog(out io.Writer, path string) error {
	c, err := catalogsource.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "catalog %s is valid\n", c.Origin)
	for _, kind := range catalog.Kinds() {
		fmt.Fprintf(out, "  %s definitions: %d\n", kind, len(c.Definitions(kind)))
	}
	fmt.Fprintf(out, "  sha256: %s\n", c.Hash)
	return nil
}
