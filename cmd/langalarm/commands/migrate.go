package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/app"
	"github.com/aliskhannn/langalarm/internal/infra/migrations"
)

type migrateFunc func(db *sql.DB, dialect string, logger *zap.Logger) error

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateSubCmd("up", "Apply all pending migrations", migrations.Up),
		migrateSubCmd("down", "Roll back the latest migration", migrations.Down),
		migrateSubCmd("status", "Print the status of every migration", migrations.Status),
	)
	return cmd
}

func migrateSubCmd(use, short string, fn migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(false)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			db, err := app.OpenDatabase(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := fn(db.Std, db.Dialect, l); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}

			version, err := migrations.Version(db.Std, db.Dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	}
}
