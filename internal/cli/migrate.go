package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"quizdom/internal/config"
	"quizdom/internal/infra/sqlite"
)

// NewMigrateCmd applies the SQLite store migrations.
func NewMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run local store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config) error {
	if cfg.Store.Driver != config.DriverSQLite {
		return fmt.Errorf("migrations only apply to the sqlite store, configured driver is %q", cfg.Store.Driver)
	}

	db, err := sqlite.OpenDB(cfg.Store.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db); err != nil {
		return err
	}
	log.Printf("migrations applied")
	return nil
}
