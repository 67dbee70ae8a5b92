package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/awesome/internal/blog"
	"github.com/dmitrymomot/awesome/pkg/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	pool, err := db.Open(ctx, cfg.DB, db.WithLogger(log))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, blog.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
		return err
	}
	log.InfoContext(ctx, "migrations applied", "driver", cfg.DB.Driver)
	return nil
}
