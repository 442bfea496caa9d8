package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"video_search_web/internal/api"
	"video_search_web/internal/app"
	"video_search_web/internal/backend"
	"video_search_web/internal/config"
	"video_search_web/internal/storage"
	"video_search_web/src"
	"video_search_web/src/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file; reported once the logger is up
	envErr := godotenv.Load()

	cfg, err := src.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.InitLogger(cfg.LogConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("No .env file loaded, using process environment")
	}

	ui, err := config.LoadUIConfig(cfg.ServerConfig.UIConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ServerConfig.UIConfigPath).Msg("Failed to load UI config")
	}
	logger.Debug().
		Str("path", cfg.ServerConfig.UIConfigPath).
		Int("result_limit", ui.Page.ResultLimit).
		Str("locale", ui.Format.Locale).
		Msg("UI config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create page store")
	}
	defer store.Close()

	appLog := *logger.GetLogger()
	client := backend.New(api.NewURLs(cfg.BackendConfig.BaseURL), nil, cfg.BackendConfig.Timeout, appLog)
	a := app.New(client, store, ui, cfg.StorageConfig.PageTTL, appLog)

	srv := &http.Server{
		Addr:              cfg.ServerConfig.Addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: cfg.ServerConfig.ReadHeaderTimeout,
		ErrorLog:          log.New(logger.Component("http"), "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.BackendConfig.BaseURL).
			Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerConfig.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}

// newStore picks Redis when REDIS_URL is set and process memory otherwise
func newStore(ctx context.Context, cfg *src.Config) (storage.Store, error) {
	if cfg.StorageConfig.RedisURL == "" {
		logger.Info().Dur("ttl", cfg.StorageConfig.PageTTL).Msg("Using in-memory page store")
		return storage.NewMemoryStore(cfg.StorageConfig.PageTTL), nil
	}
	store, err := storage.NewRedisStore(ctx, cfg.StorageConfig.RedisURL, cfg.StorageConfig.PageTTL)
	if err != nil {
		return nil, err
	}
	logger.Info().Dur("ttl", cfg.StorageConfig.PageTTL).Msg("Connected to Redis page store")
	return store, nil
}
