// Command migrate applies the PostgreSQL schema migrations from
// database.migrations_dir. The MongoDB backend needs no migrations; its
// indexes are created at startup.
//
// Usage: migrate [up|down|status]   (default: up)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/feedtags-backend/internal/app"
	"github.com/heartmarshall/feedtags-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if cfg.Storage.Backend != config.BackendPostgres {
		logger.Info("nothing to migrate", slog.String("backend", cfg.Storage.Backend))
		return
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(cfg.Database.MigrationsDir))
	if err != nil {
		logger.Error("goose new provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			logger.Error("migrate up failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrate up completed", slog.Int("applied", len(results)))
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			logger.Error("migrate down failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrate down completed", slog.String("migration", result.Source.Path))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			logger.Error("migrate status failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, s := range statuses {
			logger.Info("migration",
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)),
			)
		}
	default:
		logger.Error("unknown command", slog.String("command", command))
		os.Exit(1)
	}
}
