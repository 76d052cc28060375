package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// OverpassKey - ключ кеша сырых элементов Overpass: центр с точностью 6 знаков и радиус
func OverpassKey(lat, lon, radiusKm float64) string {
	return fmt.Sprintf("overpass:%.6f:%.6f:%g", lat, lon, radiusKm)
}

// GetOverpassElements получает сырые элементы Overpass из кеша
func (r *cacheRepository) GetOverpassElements(ctx context.Context, lat, lon, radiusKm float64) ([]domain.OverpassElement, error) {
	data, err := r.Get(ctx, OverpassKey(lat, lon, radiusKm))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	elements := []domain.OverpassElement{}
	if err := json.Unmarshal(data, &elements); err != nil {
		r.logger.Error("Failed to unmarshal overpass elements from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal overpass elements: %w", err)
	}

	return elements, nil
}

// SetOverpassElements сохраняет сырые элементы Overpass в кеше
func (r *cacheRepository) SetOverpassElements(ctx context.Context, lat, lon, radiusKm float64, elements []domain.OverpassElement, ttl time.Duration) error {
	if elements == nil {
		elements = []domain.OverpassElement{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		r.logger.Error("Failed to marshal overpass elements", zap.Error(err))
		return fmt.Errorf("marshal overpass elements: %w", err)
	}

	return r.Set(ctx, OverpassKey(lat, lon, radiusKm), data, ttl)
}
