// Command resync-letters rebuilds the letter rollup of every owner from the
// stored tags, repairing drift left by unmatched deltas.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/feedtags-backend/internal/app"
	"github.com/heartmarshall/feedtags-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

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

	owners, err := svc.Sync.ResyncAll(ctx)
	if err != nil {
		logger.Error("letters resync failed",
			slog.String("error", err.Error()),
			slog.Int("owners", owners),
		)
		os.Exit(1)
	}

	logger.Info("letters resync completed", slog.Int("owners", owners))
}
