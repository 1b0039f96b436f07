package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roamsim/storefront/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	Long: `Start the storefront server.

The server will:
  - Load configuration from storefront.yaml (or --config)
  - Or load configuration from STOREFRONT_* environment variables
  - Open the database and apply pending migrations
  - Serve the public catalog, checkout, webhook, and admin APIs

Environment variables (for Docker deployments):
  STOREFRONT_SERVER_PORT          - Server port (default: 8080)
  STOREFRONT_DATABASE_DSN         - Database path (default: storefront.db)
  STOREFRONT_PAYMENTS_DEFAULT     - Default gateway: robokassa, stripe, none
  STOREFRONT_ROBOKASSA_LOGIN      - Robokassa merchant login
  STOREFRONT_STRIPE_SECRET_KEY    - Stripe secret key
  STOREFRONT_ADMIN_EMAIL          - Admin account email
  STOREFRONT_LOG_LEVEL            - Log level: debug, info, warn, error

Examples:
  storefront serve
  storefront serve --config /etc/storefront/config.yaml

  # Docker (env vars only):
  STOREFRONT_DATABASE_DSN=/data/storefront.db storefront serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if _, err := os.Stat(path); err != nil {
		// Fall back to environment-only configuration.
		fmt.Println("Running with environment variables (no config file)")
		path = ""
	}

	app, err := bootstrap.New(path)
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
