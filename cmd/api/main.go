package main

// @title EV Spark Hub API
// @version 1.0.0
// @description Бэкенд EV Spark Hub: поиск зарядных станций для электромобилей, бронирование слотов, mock UPI оплата и Spark Coins.
// @description
// @description Основные возможности:
// @description - Поиск станций рядом с точкой по Overpass, Open Charge Map и собственному каталогу
// @description - Бронирование слотов зарядки
// @description - Сессии mock UPI оплаты с начислением Spark Coins
// @description - Кошелёк Spark Coins и история операций

// @contact.name API Support
// @contact.email support@evsparkhub.in

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ev-spark-hub/docs/swagger"
	"github.com/ev-spark-hub/internal/config"
	httpDelivery "github.com/ev-spark-hub/internal/delivery/http"
	"github.com/ev-spark-hub/internal/delivery/http/handler"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/infrastructure/gateway"
	"github.com/ev-spark-hub/internal/infrastructure/openchargemap"
	"github.com/ev-spark-hub/internal/infrastructure/overpass"
	"github.com/ev-spark-hub/internal/pkg/logger"
	"github.com/ev-spark-hub/internal/repository/cache"
	"github.com/ev-spark-hub/internal/repository/postgres"
	redisRepo "github.com/ev-spark-hub/internal/repository/redis"
	"github.com/ev-spark-hub/internal/repository/seed"
	"github.com/ev-spark-hub/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting EV Spark Hub API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Bool("ocm_enabled", cfg.OpenChargeMap.Enabled),
		zap.Bool("seed_fallback", cfg.Stations.SeedFallback),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	stationRepo := postgres.NewStationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	ledgerRepo := cache.NewLedgerRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// Внешние источники станций
	geo := overpass.NewOverpassClient(&cfg.Overpass, cacheRepo, cfg.Cache.OverpassCacheTTL, log)

	var ocm repository.OpenChargeMapRepository
	if cfg.OpenChargeMap.Enabled {
		ocm = openchargemap.NewOpenChargeMapClient(&cfg.OpenChargeMap, log)
	}

	var seedRepo repository.SeedRepository
	if cfg.Stations.SeedFallback {
		seedRepo, err = seed.NewSeedRepository(cfg.Stations.SeedFile, log)
		if err != nil {
			log.Fatal("Failed to load seed stations", zap.Error(err))
		}
	}

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	stationUC := usecase.NewStationUseCase(
		geo,
		ocm,
		stationRepo,
		seedRepo,
		usecase.NewStationFeed(),
		cfg.Stations.DefaultRadiusKm,
		log,
	)

	rewardsUC := usecase.NewRewardsUseCase(ledgerRepo, cfg.Rewards.StartingBalance, log)
	bookingUC := usecase.NewBookingUseCase(bookingRepo, log)

	paymentFlow := usecase.NewPaymentFlow(
		paymentRepo,
		gateway.NewMockGateway(cfg.Payment.SuccessRate, log),
		rewardsUC,
		bookingUC,
		streamRepo,
		usecase.PaymentFlowConfig{
			PayeeVPA:            cfg.Payment.PayeeVPA,
			PayeeName:           cfg.Payment.PayeeName,
			Currency:            cfg.Payment.Currency,
			Gateway:             cfg.Payment.Gateway,
			CurrencyPerCoin:     cfg.Rewards.CurrencyPerCoin,
			SessionTimeout:      cfg.Payment.SessionTimeout,
			VerificationDelay:   cfg.Payment.VerificationDelay,
			VerificationTimeout: cfg.Payment.VerificationTimeout,
		},
		log,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	handlers := httpDelivery.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		}, log),
		Station: handler.NewStationHandler(stationUC, log),
		Rewards: handler.NewRewardsHandler(rewardsUC, log),
		Payment: handler.NewPaymentHandler(paymentFlow, log),
		Booking: handler.NewBookingHandler(bookingUC, log),
	}

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, handlers)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	// Останавливаем таймеры активных сессий оплаты
	paymentFlow.Close()

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
