// Command lakegatectl provides operator tooling: migrations and dev tokens.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	internaldb "lakegate/internal/db"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lakegatectl",
		Short:         "Operator tooling for the lakegate metastore",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newMigrateCmd(), newMintTokenCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending metastore migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeDB, readDB, err := internaldb.OpenPair(dbPath, 1)
			if err != nil {
				return err
			}
			defer writeDB.Close()
			defer readDB.Close()

			if err := internaldb.RunMigrations(writeDB); err != nil {
				return err
			}
			cmd.Printf("migrations applied to %s\n", dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "lakegate.sqlite", "path to the SQLite metastore file")
	return cmd
}

func newMintTokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint-token",
		Short: "Mint an HS256 development token for a principal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": subject,
				"iss": "lakegatectl",
				"iat": time.Now().Unix(),
				"exp": time.Now().Add(ttl).Unix(),
			})
			signed, err := tok.SignedString([]byte(secret))
			if err != nil {
				return err
			}
			cmd.Println(signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&subject, "subject", "", "principal name for the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
