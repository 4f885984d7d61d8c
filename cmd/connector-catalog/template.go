package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/catalogsource"
	"github.com/open-sspm/connector-catalog/internal/config"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template <source|destination> <repository> <resource-name>",
	Short: "Write a configuration template for a connector definition.",
	Long: "Write <dir>/<kind>s/<resource-name>/configuration.yaml for a persisted connector definition.\n" +
		"With --from-catalog the definition is read from the catalog file instead of the database.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		fromCatalog, _ := cmd.Flags().GetBool("from-catalog")
		return runTemplate(cmd.Context(), cmd.OutOrStdout(), templateRequest{
			kind:         args[0],
			repository:   args[1],
			resourceName: args[2],
			dir:          dir,
			fromCatalog:  fromCatalog,
		})
	},
}

func init() {
	templateCmd.Flags().String("dir", ".", "project directory to write into")
	templateCmd.Flags().Bool("from-catalog", false, "resolve the definition from the catalog file instead of the database")
}

type templateRequest struct {
	kind         string
	repository   string
	resourceName string
	dir          string
	fromCatalog  bool
}

func runTemplate(ctx context.Context, out io.Writer, req templateRequest) error {
	kind, err := catalog.ParseKind(req.kind)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var def catalog.Definition
	if req.fromCatalog {
		cfg, err := config.LoadOptionalDB()
		if err != nil {
			return err
		}
		def, err = definitionFromCatalog(cfg.CatalogPath, kind, req.repository)
		if err != nil {
			return err
		}
	} else {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		def, err = definitionFromDatabase(ctx, cfg, kind, req.repository)
		if err != nil {
			return err
		}
	}

	path, err := catalogsource.WriteTemplate(req.dir, def, req.resourceName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func definitionFromCatalog(path string, kind catalog.Kind, repository string) (catalog.Definition, error) {
	c, err := catalogsource.Load(path)
	if err != nil {
		return catalog.Definition{}, err
	}
	for _, def := range c.Definitions(kind) {
		if def.Repository == repository {
			return def, nil
		}
	}
	return catalog.Definition{}, fmt.Errorf("%w: %s %s in %s", catalog.ErrDefinitionNotFound, kind, repository, c.Origin)
}

func definitionFromDatabase(ctx context.Context, cfg config.Config, kind catalog.Kind, repository string) (catalog.Definition, error) {
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return catalog.Definition{}, err
	}
	defer pool.Close()

	row, err := gen.New(pool).GetConnectorDefinition(ctx, gen.GetConnectorDefinitionParams{
		Kind:       string(kind),
		Repository: repository,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Definition{}, fmt.Errorf("%w: %s %s", catalog.ErrDefinitionNotFound, kind, repository)
	}
	if err != nil {
		return catalog.Definition{}, err
	}
	return catalog.FromRow(row), nil
}
