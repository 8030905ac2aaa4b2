package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/askloop/askloop/internal/app"
	"github.com/askloop/askloop/internal/config"
	"github.com/askloop/askloop/internal/logger"
	"github.com/askloop/askloop/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	// Reconcile the index with the bucket before serving, then keep a
	// periodic sweep running if one is configured.
	_, err = app.FeedService.Sync(context.Background())
	if err != nil {
		slog.Warn("initial bucket sync failed", "error", err)
	}
	if cfg.SyncInterval > 0 {
		go app.FeedService.SyncLoop(context.Background(), cfg.SyncInterval)
	}

	handler := routes.SetupRoutes(app)
	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}
