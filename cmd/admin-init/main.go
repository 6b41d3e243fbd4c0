// Command admin-init seeds the operator credential, or resets its password
// when the user already exists. Useful after a lockout, since the API's
// change-password endpoint cannot recover a forgotten admin phone.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/pspupun/girish-cable-admin/internal/auth"
	"github.com/pspupun/girish-cable-admin/internal/config"
	applog "github.com/pspupun/girish-cable-admin/internal/log"
	"github.com/pspupun/girish-cable-admin/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		logger.Error("Password hash failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repo.EnsureAdmin(ctx, cfg.AdminPhone, hash); err != nil {
		logger.Error("Admin seeding failed", applog.FieldError, err)
		os.Exit(1)
	}
	// Overwrite the hash as well, so re-running resets a lost password.
	if err := repo.UpdatePassword(ctx, cfg.AdminPhone, hash); err != nil {
		logger.Error("Password reset failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Admin init completed", applog.FieldPhone, cfg.AdminPhone)
}
