package cmd

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nfrund/profiledesk/internal/app"
	"github.com/nfrund/profiledesk/internal/config"
	"github.com/nfrund/profiledesk/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the schema of every configured database backend.

For SurrealDB this defines the "account" record access method and the users
table. For PostgreSQL it creates the users table. Every statement is
idempotent, so the command can be run on each deploy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Shutdown(cmd.Context())

		cfg, err := app.Resolve[*config.Config](a)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		applied := 0
		// Resolving a connection applies its schema.
		if cfg.UsesSurreal() {
			if _, err := app.Resolve[*database.Connection](a); err != nil {
				return fmt.Errorf("surrealdb: %w", err)
			}
			fmt.Fprintln(out, "surrealdb: schema applied")
			applied++
		}
		if cfg.GetProfileStore() == config.BackendPostgres {
			if _, err := app.Resolve[*pgxpool.Pool](a); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			fmt.Fprintln(out, "postgres: schema applied")
			applied++
		}
		if applied == 0 {
			fmt.Fprintln(out, "nothing to migrate: all backends are in memory")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
