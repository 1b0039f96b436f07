package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roamsim/storefront/adapters/sqlite"
	"github.com/roamsim/storefront/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Create or upgrade the storefront database schema.

The serve command applies migrations on startup as well; this command
exists for running migrations ahead of a deploy.

Examples:
  storefront migrate
  storefront migrate --config /etc/storefront/config.yaml`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	fmt.Printf("Database %s is up to date.\n", cfg.Database.DSN)
	return nil
}
