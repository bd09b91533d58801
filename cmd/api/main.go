// Package main is the entry point for the SmartWallet API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/smartwallet/backend/config"
	"github.com/smartwallet/backend/internal/infra/db"
	"github.com/smartwallet/backend/internal/infra/dependency"
	"github.com/smartwallet/backend/internal/infra/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("API stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(os.Stdout, "json", slog.LevelInfo)
		return err
	}
	logging.Setup(os.Stdout, cfg.Log.Format, cfg.LogLevel())

	slog.Info("Starting SmartWallet API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		slog.Info("Database migrations completed successfully")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector, err := dependency.NewInjector(ctx, cfg, database.DB(), dependency.NewRedisClient(ctx, cfg.Redis))
	if err != nil {
		return err
	}
	defer func() {
		if err := injector.Close(); err != nil {
			slog.Error("Failed to close clients", "error", err)
		}
	}()

	var wg sync.WaitGroup

	if cfg.Email.WorkerEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			injector.EmailWorker.Start(ctx)
		}()
	}

	if cfg.Scheduler.Enabled {
		if err := injector.Scheduler.Start(ctx); err != nil {
			return err
		}
		defer injector.Scheduler.Stop()
	}

	bot, err := injector.NewTelegramBot()
	if err != nil {
		slog.Error("Telegram bot disabled", "error", err)
	} else if bot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Run(ctx)
		}()
	}

	engine := injector.Router.Setup(cfg.Server.Environment)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	wg.Wait()

	slog.Info("Server exited properly")
	return nil
}
