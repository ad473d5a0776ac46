package command

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/service"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.json]",
		Short: "Import movies and reviews from a JSON seed file",
		Long: `Import a catalog seed: {"movies": [{"title": ..., "genres": [...], "reviews": [{"rating": 5}]}]}.
The whole file is imported in one transaction; any invalid entry aborts the import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeed(args[0])
			if err != nil {
				return err
			}
			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				result, err := catalog.ImportCatalog(ctx, *seed)
				if err != nil {
					return describeError(err)
				}
				printSuccess(cmd.OutOrStdout(), "Imported %d movies and %d reviews", result.MoviesImported, result.ReviewsImported)
				return nil
			})
		},
	}
}

func readSeed(path string) (*models.CatalogSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed models.CatalogSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &seed, nil
}
