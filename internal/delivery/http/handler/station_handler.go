package handler

import (
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/ev-spark-hub/internal/pkg/validator"
	"github.com/ev-spark-hub/internal/usecase"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StationHandler - обработчик запросов по зарядным станциям
type StationHandler struct {
	stationUC *usecase.StationUseCase
	logger    *zap.Logger
}

// NewStationHandler - создание нового StationHandler
func NewStationHandler(stationUC *usecase.StationUseCase, logger *zap.Logger) *StationHandler {
	return &StationHandler{
		stationUC: stationUC,
		logger:    logger,
	}
}

// FindNearby godoc
// @Summary Поиск зарядных станций рядом с точкой
// @Description Опрашивает Overpass, Open Charge Map и собственный каталог параллельно, убирает дубликаты по координатам и сортирует по расстоянию. С surface_id результат применяется к поверхности только если запрос самый новый.
// @Tags Stations
// @Accept json
// @Produce json
// @Param request body dto.NearbyStationsRequest true "Точка и радиус"
// @Success 200 {object} utils.SuccessResponse{data=dto.NearbyStationsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations/nearby [post]
func (h *StationHandler) FindNearby(c *fiber.Ctx) error {
	var req dto.NearbyStationsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.stationUC.FindNearby(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := &utils.Meta{Total: result.Total}
	if req.SurfaceID != "" {
		meta.Applied = &result.Applied
	}
	return utils.SendSuccess(c, result, meta)
}

// GetSurface godoc
// @Summary Видимый список станций поверхности
// @Tags Stations
// @Produce json
// @Param surface path string true "Идентификатор поверхности (карта, список)"
// @Success 200 {object} utils.SuccessResponse{data=dto.SurfaceResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stations/surfaces/{surface} [get]
func (h *StationHandler) GetSurface(c *fiber.Ctx) error {
	result, err := h.stationUC.GetSurface(c.Params("surface"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// DropSurface godoc
// @Summary Удаление поверхности
// @Description Запросы в полёте для поверхности будут отброшены
// @Tags Stations
// @Param surface path string true "Идентификатор поверхности"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stations/surfaces/{surface} [delete]
func (h *StationHandler) DropSurface(c *fiber.Ctx) error {
	if err := h.stationUC.DropSurface(c.Params("surface")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStation godoc
// @Summary Детали станции
// @Description Источник определяется префиксом id: overpass-, ocm-, seed- или UUID каталога
// @Tags Stations
// @Produce json
// @Param id path string true "ID станции"
// @Success 200 {object} utils.SuccessResponse{data=domain.StationRecord}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id} [get]
func (h *StationHandler) GetStation(c *fiber.Ctx) error {
	station, err := h.stationUC.GetStation(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, station, nil)
}

// ListStations godoc
// @Summary Станции собственного каталога
// @Tags Stations
// @Produce json
// @Param search query string false "Поиск по названию и адресу"
// @Param min_price query number false "Минимальная цена за кВт·ч"
// @Param max_price query number false "Максимальная цена за кВт·ч"
// @Param available_only query bool false "Только со свободными портами"
// @Param speeds query []string false "Скорости зарядки" collectionFormat(multi)
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations [get]
func (h *StationHandler) ListStations(c *fiber.Ctx) error {
	var req dto.StationListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid query parameters"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.stationUC.ListStations(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// CreateStation godoc
// @Summary Добавление станции в каталог
// @Tags Stations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StationUpsertRequest true "Станция"
// @Success 201 {object} utils.SuccessResponse{data=domain.ChargingStation}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/stations [post]
func (h *StationHandler) CreateStation(c *fiber.Ctx) error {
	var req dto.StationUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	station, err := h.stationUC.CreateStation(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, station)
}

// UpdateStation godoc
// @Summary Изменение станции каталога
// @Tags Stations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID станции"
// @Param request body dto.StationUpsertRequest true "Станция"
// @Success 200 {object} utils.SuccessResponse{data=domain.ChargingStation}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id} [put]
func (h *StationHandler) UpdateStation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrStationNotFound)
	}

	var req dto.StationUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	station, err := h.stationUC.UpdateStation(c.UserContext(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, station, nil)
}

// DeleteStation godoc
// @Summary Удаление станции каталога
// @Tags Stations
// @Security BearerAuth
// @Param id path string true "UUID станции"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id} [delete]
func (h *StationHandler) DeleteStation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrStationNotFound)
	}

	if err := h.stationUC.DeleteStation(c.UserContext(), id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
