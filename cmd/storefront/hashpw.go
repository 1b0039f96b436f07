package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/roamsim/storefront/adapters/hasher"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Generate a bcrypt hash for the admin password",
	Long: `Generate a bcrypt hash to put in admin.password_hash.

If --password is not provided, you will be prompted to enter it securely.

Examples:
  storefront hash-password
  storefront hash-password --password=secret`,
	RunE: runHashPassword,
}

var hashPasswordValue string

func init() {
	rootCmd.AddCommand(hashPasswordCmd)

	hashPasswordCmd.Flags().StringVar(&hashPasswordValue, "password", "", "password to hash (omit to be prompted)")
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	password := hashPasswordValue
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := hasher.NewBcrypt(bcrypt.DefaultCost).Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	fmt.Println(string(hash))
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
