// Command cardctl performs the administrative store operations that have
// no HTTP route: schema migration, user creation and sponsor creation.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/sponsor-cards/internal/config"
	"github.com/iliyamo/sponsor-cards/internal/database"
	"github.com/iliyamo/sponsor-cards/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore loads the DB settings from the environment (and .env) and
// connects.
func openStore(ctx context.Context) (*sql.DB, config.Config, error) {
	config.LoadDotEnv()
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, cfg, err
	}
	if err := logger.Initialize(logger.Config{Debug: cfg.LogDebug, Environment: cfg.Env}); err != nil {
		return nil, cfg, err
	}
	db, err := database.Open(ctx, cfg.Store())
	if err != nil {
		return nil, cfg, fmt.Errorf("open database: %w", err)
	}
	return db, cfg, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cardctl",
		Short:        "Administer the sponsor card store",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newUserCmd(), newSponsorCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
