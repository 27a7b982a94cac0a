package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	feedapp "github.com/club21/orderfeed/internal/application/feed"
	"github.com/club21/orderfeed/internal/infrastructure/checkpoint"
	"github.com/club21/orderfeed/internal/infrastructure/config"
	"github.com/club21/orderfeed/internal/infrastructure/logger"
	"github.com/club21/orderfeed/internal/infrastructure/scheduler"
	"github.com/club21/orderfeed/internal/infrastructure/shopify"
	"github.com/club21/orderfeed/internal/infrastructure/snapshot"
	"github.com/club21/orderfeed/internal/infrastructure/storage"
	"github.com/club21/orderfeed/internal/interfaces/http/handler"
	"github.com/club21/orderfeed/internal/interfaces/http/router"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order feed service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	service, err := buildFeedService(cfg, log)
	if err != nil {
		log.Fatal("Failed to build feed service", zap.Error(err))
	}

	engine := router.New(log).
		Register(handler.NewHealthHandler(cfg.App.Name)).
		Register(handler.NewFeedHandler(service)).
		Setup()

	var schedulers []*scheduler.Scheduler
	if cfg.Feed.Interval > 0 {
		schedulers = []*scheduler.Scheduler{
			scheduler.New("sales-feed", cfg.Feed.Interval, func(ctx context.Context) error {
				_, err := service.RunSalesFeed(ctx)
				return err
			}, log),
			scheduler.New("order-feed", cfg.Feed.Interval, func(ctx context.Context) error {
				_, err := service.RunOrderFeed(ctx)
				return err
			}, log),
		}
		for _, s := range schedulers {
			if err := s.Start(); err != nil {
				log.Fatal("Failed to start scheduler", zap.Error(err))
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	for _, s := range schedulers {
		s.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildFeedService wires the feed pipeline from configuration.
func buildFeedService(cfg *config.Config, log *zap.Logger) (*feedapp.Service, error) {
	store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		return nil, err
	}

	client, err := shopify.NewClient(&cfg.Shopify, log)
	if err != nil {
		return nil, err
	}

	checkpoints := checkpoint.NewManager(store, cfg.Feed.WorkDir, cfg.Feed.Lookback, log)
	snapshots := snapshot.NewStore(filepath.Join(cfg.Feed.WorkDir, "snapshots"), log)

	return feedapp.NewService(client, store, checkpoints, snapshots, cfg.Feed.WorkDir, log), nil
}
