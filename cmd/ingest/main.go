// Command ingest tags all pending posts once and applies them to the
// aggregates. It is meant for an external cron job when the server runs
// with an empty ingest schedule.
//
// Exit codes: 0 = success, 1 = error or failed posts.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/feedtags-backend/internal/app"
	"github.com/heartmarshall/feedtags-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	svc, err := app.NewServices(cfg, storage, logger)
	if err != nil {
		logger.Error("build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summary, err := svc.Ingest.ProcessPending(ctx)
	if err != nil {
		logger.Error("process pending failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
