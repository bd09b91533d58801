package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartwallet/backend/config"
	"github.com/smartwallet/backend/internal/infra/db"
	"github.com/smartwallet/backend/internal/infra/logging"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(os.Stderr, "text", slog.LevelInfo)

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			database, err := db.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(); err != nil {
				return fmt.Errorf("failed to run database migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
			return nil
		},
	}
}
