// Package main is the SmartWallet command line client. It runs the same use
// cases as the API against the configured database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartwallet/backend/config"
	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/infra/db"
	"github.com/smartwallet/backend/internal/infra/dependency"
	"github.com/smartwallet/backend/internal/infra/logging"
)

var rootCmd = &cobra.Command{
	Use:           "smartwallet",
	Short:         "SmartWallet personal finance assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("email", "", "email of the account to act on")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(ratesCmd())
	rootCmd.AddCommand(importOFXCmd())
	rootCmd.AddCommand(recurringCmd())
	rootCmd.AddCommand(coachCmd())
	rootCmd.AddCommand(migrateCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is the wired application used by a single command.
type app struct {
	*dependency.Injector
	database *db.Database
}

func setup(cmd *cobra.Command) (*app, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", levelName)
	}
	logging.Setup(os.Stderr, "text", level)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	injector, err := dependency.NewInjector(ctx, cfg, database.DB(), dependency.NewRedisClient(ctx, cfg.Redis))
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return &app{Injector: injector, database: database}, nil
}

func (a *app) close() {
	if err := a.Injector.Close(); err != nil {
		slog.Warn("Failed to close clients", "error", err)
	}
	if err := a.database.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// user resolves the --email flag. required controls whether it may be empty.
func (a *app) user(cmd *cobra.Command, required bool) (*entity.User, error) {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		if required {
			return nil, fmt.Errorf("--email is required")
		}
		return nil, nil
	}
	user, err := a.Users.FindByEmail(cmd.Context(), email)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", email, err)
	}
	return user, nil
}
