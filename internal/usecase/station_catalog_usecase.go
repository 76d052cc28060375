package usecase

import (
	"context"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListStations возвращает станции собственного каталога по фильтрам
func (uc *StationUseCase) ListStations(ctx context.Context, req dto.StationListRequest) (*dto.StationListResponse, error) {
	if uc.stationRepo == nil {
		return &dto.StationListResponse{Stations: []*domain.ChargingStation{}}, nil
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"min_price": *req.MinPrice,
			"max_price": *req.MaxPrice,
		})
	}

	stations, total, err := uc.stationRepo.List(ctx, domain.StationFilter{
		Search:        req.Search,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		AvailableOnly: req.AvailableOnly,
		Speeds:        req.Speeds,
		Limit:         req.Limit,
		Offset:        req.Offset,
	})
	if err != nil {
		uc.logger.Error("Failed to list stations", zap.Error(err))
		return nil, err
	}

	return &dto.StationListResponse{Stations: stations, Total: total}, nil
}

// CreateStation добавляет станцию в каталог
func (uc *StationUseCase) CreateStation(ctx context.Context, req dto.StationUpsertRequest) (*domain.ChargingStation, error) {
	if uc.stationRepo == nil {
		return nil, errors.ErrDatabaseError
	}

	station := &domain.ChargingStation{}
	req.ToDomain(station)

	if err := uc.stationRepo.Create(ctx, station); err != nil {
		return nil, err
	}

	uc.logger.Info("Station created",
		zap.String("id", station.ID.String()),
		zap.String("name", station.Name))
	return station, nil
}

// UpdateStation изменяет станцию каталога
func (uc *StationUseCase) UpdateStation(ctx context.Context, id uuid.UUID, req dto.StationUpsertRequest) (*domain.ChargingStation, error) {
	if uc.stationRepo == nil {
		return nil, errors.ErrStationNotFound
	}

	station, err := uc.stationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.ToDomain(station)

	if err := uc.stationRepo.Update(ctx, station); err != nil {
		return nil, err
	}
	return station, nil
}

// DeleteStation удаляет станцию из каталога
func (uc *StationUseCase) DeleteStation(ctx context.Context, id uuid.UUID) error {
	if uc.stationRepo == nil {
		return errors.ErrStationNotFound
	}
	if err := uc.stationRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("Station deleted", zap.String("id", id.String()))
	return nil
}
