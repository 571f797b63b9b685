package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/melodex/melodex-backend/api/routes"
	"github.com/melodex/melodex-backend/internal/catalog"
	"github.com/melodex/melodex-backend/internal/genres"
	"github.com/melodex/melodex-backend/pkg/config"
	"github.com/melodex/melodex-backend/pkg/env"
	"github.com/melodex/melodex-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "music-service"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "music-service",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	catalogClient, err := catalog.NewClient(catalog.ClientParams{
		Config: cfg.Spotify,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	genreCache, err := genres.NewCache(genres.CacheParams{
		Config: cfg.Deezer,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create genre cache", err)
		os.Exit(1)
	}
	if err := genreCache.Load(context.Background()); err != nil {
		// lookups fall back to the sentinel name until a refresh succeeds
		logg.Warn(context.Background(), "genre cache load failed, starting empty")
	}

	port := env.Get("PORT", cfg.App.Port)
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting music service")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewMusicRouter(routes.MusicRouterParams{
			Config:     cfg,
			Logger:     logg,
			Catalog:    catalogClient,
			GenreCache: genreCache,
		}),
	}

	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "music service stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
