package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/feedtags-backend/internal/config"
	"github.com/heartmarshall/feedtags-backend/internal/transport/middleware"
	"github.com/heartmarshall/feedtags-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, opens the storage
// backend, wires the services, then serves HTTP and runs the maintenance
// jobs until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Backend),
	)

	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	svc, err := NewServices(cfg, storage, logger)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := rest.NewRouter(rest.RouterDeps{
		Health:          rest.NewHealthHandler(storage.DB, storage.Backend, Version),
		Tags:            rest.NewTagHandler(svc.Catalog, logger),
		Letters:         rest.NewLetterHandler(svc.Catalog, svc.Sync, logger),
		Posts:           rest.NewPostHandler(svc.Ingest, logger),
		Limiter:         limiter,
		CORS:            cfg.CORS,
		ResyncPerMinute: cfg.Server.ResyncPerMinute,
		StorageTimeout:  cfg.Storage.Timeout,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	sched := NewScheduler(ctx, cfg.Letters.Location(), logger)
	if err := sched.Add(MaintenanceJobs(cfg, svc)...); err != nil {
		return err
	}
	sched.Start()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			sched.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.String("error", err.Error()))
	}
	sched.Stop(shutdownCtx)

	logger.Info("stopped")
	return nil
}
