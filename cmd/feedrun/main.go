// Command feedrun executes one feed run and exits. Intended for cron.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	feedapp "github.com/club21/orderfeed/internal/application/feed"
	"github.com/club21/orderfeed/internal/infrastructure/checkpoint"
	"github.com/club21/orderfeed/internal/infrastructure/config"
	"github.com/club21/orderfeed/internal/infrastructure/logger"
	"github.com/club21/orderfeed/internal/infrastructure/shopify"
	"github.com/club21/orderfeed/internal/infrastructure/snapshot"
	"github.com/club21/orderfeed/internal/infrastructure/storage"
)

func main() {
	feedKind := flag.String("feed", "sales", "which feed to run: sales, orders or both")
	flag.Parse()

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

	store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}
	ctx := context.Background()
	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to ensure bucket", zap.Error(err))
	}

	client, err := shopify.NewClient(&cfg.Shopify, log)
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}

	checkpoints := checkpoint.NewManager(store, cfg.Feed.WorkDir, cfg.Feed.Lookback, log)
	snapshots := snapshot.NewStore(filepath.Join(cfg.Feed.WorkDir, "snapshots"), log)
	service := feedapp.NewService(client, store, checkpoints, snapshots, cfg.Feed.WorkDir, log)

	type feedRun struct {
		name string
		run  func(context.Context) (*feedapp.RunResult, error)
	}
	var runs []feedRun
	switch *feedKind {
	case "sales":
		runs = []feedRun{{"sales", service.RunSalesFeed}}
	case "orders":
		runs = []feedRun{{"orders", service.RunOrderFeed}}
	case "both":
		runs = []feedRun{{"sales", service.RunSalesFeed}, {"orders", service.RunOrderFeed}}
	default:
		log.Fatal("Unknown feed kind", zap.String("feed", *feedKind))
	}

	failed := false
	for _, fr := range runs {
		result, err := fr.run(ctx)
		if err != nil {
			log.Error("Feed run failed", zap.String("feed", fr.name), zap.Error(err))
			failed = true
			continue
		}
		log.Info("Feed run finished",
			zap.String("feed", fr.name),
			zap.Int("orders_exported", result.OrdersExported),
			zap.Int("rows", result.Rows),
			zap.String("storage_key", result.StorageKey),
		)
	}
	if failed {
		os.Exit(1)
	}
}
