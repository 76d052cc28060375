package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ev-spark-hub/internal/config"
	"github.com/ev-spark-hub/internal/infrastructure/overpass"
	"github.com/ev-spark-hub/internal/pkg/logger"
	"github.com/ev-spark-hub/internal/repository/cache"
	redisRepo "github.com/ev-spark-hub/internal/repository/redis"
	"github.com/ev-spark-hub/internal/worker"
	"github.com/ev-spark-hub/internal/worker/prefetch"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting station prefetch worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("read_timeout", cfg.Worker.StreamReadTimeout),
		zap.Strings("overpass_endpoints", cfg.Overpass.Endpoints))

	// 3. Connect to Redis: кеш Overpass и отдельный клиент для блокирующего XREADGROUP
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	streamsClient, err := cache.NewRedisStreams(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis streams", zap.Error(err))
	}
	defer func() {
		if err := streamsClient.Close(); err != nil {
			log.Error("Failed to close Redis streams connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(streamsClient, log)
	geo := overpass.NewOverpassClient(&cfg.Overpass, cacheRepo, cfg.Cache.OverpassCacheTTL, log)

	// 5. Initialize workers
	prefetchWorker := prefetch.NewStationPrefetchWorker(
		streamRepo,
		geo,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.StreamReadTimeout,
		cfg.Stations.DefaultRadiusKm,
		cfg.Worker.MaxRetries,
		log,
	)

	manager := worker.NewManager(worker.DefaultShutdownTimeout, log)
	manager.Register(prefetchWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := manager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	for name, stats := range manager.Stats() {
		log.Info("Worker stats",
			zap.String("name", name),
			zap.Int64("processed", stats.Processed),
			zap.Int64("skipped", stats.Skipped))
	}

	log.Info("Worker shutdown complete")
}
