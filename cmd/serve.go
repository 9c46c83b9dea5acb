package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"image_media/internal/api"
	"image_media/internal/cache"
	"image_media/internal/media"
	"image_media/internal/repository"
	"image_media/internal/service"
	"image_media/pkg/config"
)

func newServeCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Example: `  # Start with settings from the environment / .env
  image_media serve

  # Override the listen address
  image_media serve --address :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}
			setupLogger(cfg.Log)

			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Address to listen on (overrides server.address)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	mediaClient, err := media.NewCloudinaryClient(cfg.Cloudinary, cfg.Remote.Timeout)
	if err != nil {
		return err
	}

	qrCache := newQRCache(ctx, cfg)
	defer qrCache.Close()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, mediaClient, qrCache)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: api.NewRouter(services),
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "err", err)
			return err
		}
		slog.Info("server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

// newQRCache 在設定了 Redis 時回傳 Redis 快取，連線失敗仍繼續使用（讀寫錯誤會被略過）
func newQRCache(ctx context.Context, cfg *config.Config) cache.QRCache {
	if !cfg.Redis.Enabled() {
		return cache.Disabled{}
	}

	rc := cache.NewRedisCache(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Cache.TTL)
	if err := rc.Ping(ctx); err != nil {
		slog.Warn("redis unavailable, qr cache will be bypassed", "addr", cfg.Redis.Addr(), "err", err)
	} else {
		slog.Info("qr cache enabled", "addr", cfg.Redis.Addr(), "ttl", cfg.Cache.TTL)
	}
	return rc
}
