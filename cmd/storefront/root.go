package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "eSIM e-commerce storefront with catalog normalization and payments",
	Long: `RoamSim storefront serves a normalized eSIM catalog with per-currency
discount pricing, multi-brand resolution, Robokassa and Stripe checkout,
and an admin API for catalog management.

Quick start:
  storefront migrate    # Create/upgrade the database schema
  storefront serve      # Start the HTTP server

Management:
  storefront validate       # Validate configuration
  storefront hash-password  # Generate an admin password hash`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "storefront.yaml", "config file path")
}
