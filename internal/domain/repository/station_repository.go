package repository

import (
	"context"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/google/uuid"
)

// GeoSource - внешний источник станций (Overpass). Никогда не возвращает ошибку:
// при полном отказе возвращается пустой список.
type GeoSource interface {
	FindChargingStations(ctx context.Context, lat, lon, radiusKm float64) []domain.StationRecord
	GetStationDetails(ctx context.Context, nodeID int64) (*domain.StationRecord, error)
}

// OpenChargeMapRepository - клиент Open Charge Map
type OpenChargeMapRepository interface {
	FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.StationRecord, error)
	GetStation(ctx context.Context, id int64) (*domain.StationRecord, error)
}

// StationRepository - собственное хранилище станций (PostGIS)
type StationRepository interface {
	// FindNearby ищет станции в радиусе от точки
	FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*domain.ChargingStation, error)

	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChargingStation, error)
	List(ctx context.Context, filter domain.StationFilter) ([]*domain.ChargingStation, int, error)
	Create(ctx context.Context, station *domain.ChargingStation) error
	Update(ctx context.Context, station *domain.ChargingStation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SeedRepository - встроенный офлайн-список станций
type SeedRepository interface {
	All() []domain.StationRecord
}
