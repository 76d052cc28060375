package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthChecker - зависимость, которую проверяет /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]HealthChecker
	logger *zap.Logger
}

func NewHealthHandler(checks map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// Health godoc
// @Summary Проверка состояния сервиса
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "unhealthy"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "healthy"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"time":         time.Now(),
		"dependencies": deps,
	})
}
