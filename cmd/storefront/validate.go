package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roamsim/storefront/adapters/sqlite"
	"github.com/roamsim/storefront/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the storefront configuration file.

Checks:
  - YAML syntax is valid
  - Required fields are present
  - Payment gateway credentials are complete
  - Database is writable (optional)

Examples:
  storefront validate
  storefront validate --config /etc/storefront/config.yaml`,
	RunE: runValidate,
}

var validateCheckDatabase bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckDatabase, "check-database", false, "check if database is writable")
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Printf("Validating %s...\n\n", cfgFile)

	// Check file exists
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Printf("  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Printf("  %s Config file exists\n", checkMark)

	// Load and validate config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Printf("  %s Config syntax valid\n", checkMark)

	// Show config summary
	fmt.Printf("  %s Listen: %s:%d\n", checkMark, cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  %s Database: %s\n", checkMark, cfg.Database.DSN)
	fmt.Printf("  %s Default gateway: %s\n", checkMark, cfg.Payments.Default)
	if cfg.Payments.Robokassa.Login != "" {
		mode := "live"
		if cfg.Payments.Robokassa.Test {
			mode = "test"
		}
		fmt.Printf("  %s Robokassa configured (%s mode)\n", checkMark, mode)
	}
	if cfg.Payments.Stripe.SecretKey != "" {
		fmt.Printf("  %s Stripe configured\n", checkMark)
	}
	if cfg.Admin.Email != "" {
		fmt.Printf("  %s Admin account: %s\n", checkMark, cfg.Admin.Email)
	}

	// Optional: check database
	if validateCheckDatabase {
		if err := checkDatabaseWritable(cfg.Database.DSN); err != nil {
			fmt.Printf("  %s Database writable\n", crossMark)
			fmt.Printf("      Error: %v\n", err)
		} else {
			fmt.Printf("  %s Database writable\n", checkMark)
		}
	}

	fmt.Println()
	fmt.Println("Configuration is valid.")
	return nil
}

func checkDatabaseWritable(dsn string) error {
	db, err := sqlite.Open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
