package command

// root.go defines the root command of the moviehub CLI and the global flags
// that select which database the commands work on.

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moviehub/database"
	"moviehub/internal/cache"
	"moviehub/internal/config"
	"moviehub/internal/logging"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/microservices/http-api/service"
)

type globalOptions struct {
	driver string // overrides DATABASE_DRIVER
	dsn    string // overrides DATABASE_URL
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "moviehub",
		Short: "moviehub - movie catalog and review command line interface",
		Long: `moviehub manages the movie catalog directly against the local database.
Use it to:
- Add, list, show and delete movies
- Write and read anonymous reviews
- Print the site statistics
- Import a catalog from a JSON seed file

Use "moviehub [command] --help" to see the options of each command.`,
		SilenceUsage: true,
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "database driver: sqlite or postgres (default from DATABASE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&opts.dsn, "db", "", "SQLite file or PostgreSQL DSN (default from DATABASE_URL)")

	rootCmd.AddCommand(
		newMovieCmd(opts),
		newReviewCmd(opts),
		newStatsCmd(opts),
		newImportCmd(opts),
	)
	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// withCatalog opens the configured database, hands the catalog to fn and
// releases every connection before returning.
func (o *globalOptions) withCatalog(cmd *cobra.Command, fn func(ctx context.Context, catalog service.CatalogService) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if o.driver != "" {
		cfg.DatabaseDriver = o.driver
	}
	if o.dsn != "" {
		cfg.DatabaseURL = o.dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// keep the terminal clean: only warnings and errors go to stderr
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "moviehub-cli", "warn", cfg.LogFormat)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// writes from the CLI must invalidate the API's cached stats too
	var statsCache service.StatsCache
	if cfg.CacheEnabled() {
		c, err := cache.NewStatsCache(cfg.RedisURL, cfg.CacheDuration())
		if err != nil {
			logger.Warn("stats cache unavailable", "error", err)
		} else {
			defer c.Close()
			statsCache = c
		}
	}

	return fn(ctx, service.NewCatalogService(repository.NewStore(db), statsCache, logger))
}
