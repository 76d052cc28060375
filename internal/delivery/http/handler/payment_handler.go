package handler

import (
	"github.com/ev-spark-hub/internal/delivery/http/middleware"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/upi"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/ev-spark-hub/internal/pkg/validator"
	"github.com/ev-spark-hub/internal/usecase"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentHandler - обработчик mock UPI оплаты
type PaymentHandler struct {
	flow   *usecase.PaymentFlow
	logger *zap.Logger
}

func NewPaymentHandler(flow *usecase.PaymentFlow, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		flow:   flow,
		logger: logger,
	}
}

// CreateSession godoc
// @Summary Открытие сессии оплаты
// @Description Сессия создаётся в состоянии idle, обратный отсчёт запускается сразу
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePaymentSessionRequest true "Сумма и назначение"
// @Success 201 {object} utils.SuccessResponse{data=domain.PaymentSession}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/payments/sessions [post]
func (h *PaymentHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreatePaymentSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	session, err := h.flow.CreateSession(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, session)
}

// GetSession godoc
// @Summary Состояние сессии оплаты
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.PaymentSession}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/payments/sessions/{id} [get]
func (h *PaymentHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.flow.Get(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, session, nil)
}

// Initiate godoc
// @Summary Запуск оплаты (idle -> processing)
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID сессии"
// @Success 202 {object} utils.SuccessResponse{data=domain.PaymentSession}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 410 {object} utils.ErrorResponse
// @Router /api/v1/payments/sessions/{id}/initiate [post]
func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	session, err := h.flow.Initiate(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	c.Status(fiber.StatusAccepted)
	return utils.SendSuccess(c, session, nil)
}

// Retry godoc
// @Summary Повтор после неудачи (failed -> idle)
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.PaymentSession}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 410 {object} utils.ErrorResponse
// @Router /api/v1/payments/sessions/{id}/retry [post]
func (h *PaymentHandler) Retry(c *fiber.Ctx) error {
	session, err := h.flow.Retry(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, session, nil)
}

// Dismiss godoc
// @Summary Закрытие сессии оплаты
// @Tags Payments
// @Security BearerAuth
// @Param id path string true "ID сессии"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/payments/sessions/{id} [delete]
func (h *PaymentHandler) Dismiss(c *fiber.Ctx) error {
	if err := h.flow.Dismiss(middleware.UserID(c), c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary История платежей пользователя
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Количество" default(50)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Payment}
// @Router /api/v1/payments/history [get]
func (h *PaymentHandler) History(c *fiber.Ctx) error {
	payments, err := h.flow.History(c.UserContext(), middleware.UserID(c), c.QueryInt("limit", 50))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, payments, &utils.Meta{Total: len(payments)})
}

// UPIIntent godoc
// @Summary Ссылка upi://pay для оплаты сервису
// @Tags Payments
// @Produce json
// @Param amount query string true "Сумма"
// @Param note query string false "Назначение"
// @Param tr query string false "Референс транзакции"
// @Success 200 {object} utils.SuccessResponse{data=dto.UPIIntentResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/payments/upi/intent [get]
func (h *PaymentHandler) UPIIntent(c *fiber.Ctx) error {
	var req dto.UPIIntentRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid query parameters"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidAmount)
	}

	link, err := h.flow.Intent(amount, req.Note, req.TransactionRef)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.UPIIntentResponse{URL: link}, nil)
}

// ParseUPI godoc
// @Summary Разбор содержимого UPI QR кода
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.ParseUPIRequest true "Содержимое QR"
// @Success 200 {object} utils.SuccessResponse{data=domain.UPIPayload}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/payments/upi/parse [post]
func (h *PaymentHandler) ParseUPI(c *fiber.Ctx) error {
	var req dto.ParseUPIRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	payload, err := upi.Parse(req.Payload)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, payload, nil)
}
