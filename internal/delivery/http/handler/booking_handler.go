package handler

import (
	"github.com/ev-spark-hub/internal/delivery/http/middleware"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/ev-spark-hub/internal/pkg/validator"
	"github.com/ev-spark-hub/internal/usecase"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookingUC *usecase.BookingUseCase
	logger    *zap.Logger
}

func NewBookingHandler(bookingUC *usecase.BookingUseCase, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingUC: bookingUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Бронирование слота на станции
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Станция и интервал"
// @Success 201 {object} utils.SuccessResponse{data=domain.Booking}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/bookings [post]
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	booking, err := h.bookingUC.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, booking)
}

// List godoc
// @Summary Бронирования пользователя
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, confirmed, completed, cancelled"
// @Param from query string false "Начало интервала (RFC3339)"
// @Param to query string false "Конец интервала (RFC3339)"
// @Param limit query int false "Количество" default(50)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Booking}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/bookings [get]
func (h *BookingHandler) List(c *fiber.Ctx) error {
	var req dto.ListBookingsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid query parameters"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	bookings, err := h.bookingUC.List(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, bookings, &utils.Meta{Total: len(bookings)})
}

// Cancel godoc
// @Summary Отмена бронирования
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID бронирования"
// @Success 200 {object} utils.SuccessResponse{data=domain.Booking}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrBookingNotFound)
	}

	booking, err := h.bookingUC.Cancel(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, booking, nil)
}
