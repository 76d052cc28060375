package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ev-spark-hub/internal/config"
	"github.com/ev-spark-hub/internal/delivery/http/handler"
	"github.com/ev-spark-hub/internal/delivery/http/middleware"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Handlers - набор HTTP обработчиков сервиса
type Handlers struct {
	Health  *handler.HealthHandler
	Station *handler.StationHandler
	Rewards *handler.RewardsHandler
	Payment *handler.PaymentHandler
	Booking *handler.BookingHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "EV Spark Hub",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App возвращает fiber приложение (используется в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	optionalAuth := middleware.Auth(s.config.Auth.JWTSecret, false)
	requiredAuth := middleware.Auth(s.config.Auth.JWTSecret, true)

	api.Get("/health", s.handlers.Health.Health)

	// Stations
	stations := api.Group("/stations")
	stations.Post("/nearby", s.handlers.Station.FindNearby)
	stations.Get("/surfaces/:surface", s.handlers.Station.GetSurface)
	stations.Delete("/surfaces/:surface", s.handlers.Station.DropSurface)
	stations.Get("/", s.handlers.Station.ListStations)
	stations.Get("/:id", s.handlers.Station.GetStation)
	stations.Post("/", requiredAuth, s.handlers.Station.CreateStation)
	stations.Put("/:id", requiredAuth, s.handlers.Station.UpdateStation)
	stations.Delete("/:id", requiredAuth, s.handlers.Station.DeleteStation)

	// Rewards - анонимный пользователь читает леджер guest, изменения только с токеном
	rewards := api.Group("/rewards")
	rewards.Get("/", optionalAuth, s.handlers.Rewards.GetBalance)
	rewards.Get("/history", optionalAuth, s.handlers.Rewards.GetHistory)
	rewards.Post("/earn", requiredAuth, s.handlers.Rewards.Earn)
	rewards.Post("/spend", requiredAuth, s.handlers.Rewards.Spend)
	rewards.Post("/reset", requiredAuth, s.handlers.Rewards.Reset)

	// Payments
	payments := api.Group("/payments")
	payments.Get("/upi/intent", s.handlers.Payment.UPIIntent)
	payments.Post("/upi/parse", s.handlers.Payment.ParseUPI)
	payments.Get("/history", optionalAuth, s.handlers.Payment.History)
	sessions := payments.Group("/sessions", optionalAuth)
	sessions.Post("/", s.handlers.Payment.CreateSession)
	sessions.Get("/:id", s.handlers.Payment.GetSession)
	sessions.Post("/:id/initiate", s.handlers.Payment.Initiate)
	sessions.Post("/:id/retry", s.handlers.Payment.Retry)
	sessions.Delete("/:id", s.handlers.Payment.Dismiss)

	// Bookings
	bookings := api.Group("/bookings", requiredAuth)
	bookings.Post("/", s.handlers.Booking.Create)
	bookings.Get("/", s.handlers.Booking.List)
	bookings.Post("/:id/cancel", s.handlers.Booking.Cancel)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			if fiberErr.Code == fiber.StatusNotFound {
				return utils.SendError(c, errors.New("NOT_FOUND", "Route not found", fiber.StatusNotFound))
			}
			return utils.SendError(c, errors.New("HTTP_ERROR", fiberErr.Message, fiberErr.Code))
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
