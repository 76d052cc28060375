package repository

import (
	"context"
	"time"

	"github.com/ev-spark-hub/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil при промахе)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetOverpassElements получает сырые элементы Overpass для области
	GetOverpassElements(ctx context.Context, lat, lon, radiusKm float64) ([]domain.OverpassElement, error)

	// SetOverpassElements сохраняет сырые элементы Overpass для области
	SetOverpassElements(ctx context.Context, lat, lon, radiusKm float64, elements []domain.OverpassElement, ttl time.Duration) error
}
