package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ev-spark-hub/internal/config"
	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRadiusKm = 5.0

type client struct {
	httpClient *http.Client
	endpoints  []string
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger

	mu     sync.Mutex
	cursor int
}

// NewOverpassClient создает адаптер Overpass API с перебором зеркал по кругу.
// cache может быть nil - тогда сырые ответы не кешируются.
func NewOverpassClient(cfg *config.OverpassConfig, cache repository.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) repository.GeoSource {
	endpoints := cfg.Endpoints
	if len(endpoints) == 0 {
		endpoints = config.DefaultOverpassEndpoints
	}

	return &client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		endpoints:  append([]string(nil), endpoints...),
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("overpass"),
	}
}

// FindChargingStations возвращает станции в радиусе, отсортированные по расстоянию.
// Ошибки не возвращаются: при отказе всех зеркал результат пустой.
func (c *client) FindChargingStations(ctx context.Context, lat, lon, radiusKm float64) []domain.StationRecord {
	if !utils.ValidateCoordinates(lat, lon) {
		c.logger.Warn("Invalid coordinates, skipping Overpass request",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon))
		return []domain.StationRecord{}
	}
	radiusKm = utils.NormalizeRadius(radiusKm, defaultRadiusKm)

	elements, ok := c.cachedElements(ctx, lat, lon, radiusKm)
	if !ok {
		query := fmt.Sprintf(
			`[out:json][timeout:25];(node["amenity"="charging_station"](around:%d,%f,%f););out body;>;out skel qt;`,
			int(radiusKm*1000), lat, lon,
		)

		resp, err := c.execute(ctx, query)
		if err != nil {
			c.logger.Error("All Overpass endpoints failed",
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
				zap.Float64("radius_km", radiusKm),
				zap.Error(err))
			return []domain.StationRecord{}
		}
		elements = nodesOnly(resp.Elements)
		c.storeElements(ctx, lat, lon, radiusKm, elements)
	}

	requestID := fmt.Sprintf("%.6f-%.6f-%s", lat, lon, uuid.NewString())

	records := make([]domain.StationRecord, 0, len(elements))
	for i, el := range elements {
		rec := mapElement(el, requestID, i)
		rec.DistanceKm = utils.DistanceKm(lat, lon, el.Lat, el.Lon)
		records = append(records, rec)
	}

	result := domain.DeduplicateStations(records)

	c.logger.Debug("Overpass stations fetched",
		zap.Int("nodes", len(elements)),
		zap.Int("stations", len(result)))

	return result
}

// GetStationDetails получает один узел по OSM id
func (c *client) GetStationDetails(ctx context.Context, nodeID int64) (*domain.StationRecord, error) {
	query := fmt.Sprintf(`[out:json][timeout:25];node(%d);out body;`, nodeID)

	resp, err := c.execute(ctx, query)
	if err != nil {
		return nil, errors.ErrUpstreamError.WithDetails(map[string]interface{}{
			"source":  string(domain.SourceOverpass),
			"node_id": nodeID,
		})
	}

	for _, el := range nodesOnly(resp.Elements) {
		if el.ID != nodeID {
			continue
		}
		requestID := fmt.Sprintf("%.6f-%.6f-%s", el.Lat, el.Lon, uuid.NewString())
		rec := mapElement(el, requestID, 0)
		return &rec, nil
	}

	return nil, errors.ErrStationNotFound
}

// execute отправляет запрос, перебирая зеркала начиная с текущего курсора.
// Каждое зеркало пробуется не более одного раза за вызов.
func (c *client) execute(ctx context.Context, query string) (*domain.OverpassResponse, error) {
	var lastErr error

	for attempt := 0; attempt < len(c.endpoints); attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		endpoint := c.currentEndpoint()

		resp, err := c.post(ctx, endpoint, query)
		if err == nil {
			return resp, nil
		}

		c.logger.Warn("Overpass endpoint failed, rotating",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		c.advance()
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no overpass endpoints configured")
	}
	return nil, fmt.Errorf("overpass: all %d endpoints failed: %w", len(c.endpoints), lastErr)
}

func (c *client) post(ctx context.Context, endpoint, query string) (*domain.OverpassResponse, error) {
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out domain.OverpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &out, nil
}

func (c *client) currentEndpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoints[c.cursor]
}

func (c *client) advance() {
	c.mu.Lock()
	c.cursor = (c.cursor + 1) % len(c.endpoints)
	c.mu.Unlock()
}

func (c *client) cachedElements(ctx context.Context, lat, lon, radiusKm float64) ([]domain.OverpassElement, bool) {
	if c.cache == nil {
		return nil, false
	}

	elements, err := c.cache.GetOverpassElements(ctx, lat, lon, radiusKm)
	if err != nil {
		c.logger.Warn("Overpass cache read failed", zap.Error(err))
		return nil, false
	}
	if elements == nil {
		return nil, false
	}

	c.logger.Debug("Overpass cache hit",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("nodes", len(elements)))
	return elements, true
}

func (c *client) storeElements(ctx context.Context, lat, lon, radiusKm float64, elements []domain.OverpassElement) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SetOverpassElements(ctx, lat, lon, radiusKm, elements, c.cacheTTL); err != nil {
		c.logger.Warn("Overpass cache write failed", zap.Error(err))
	}
}

func nodesOnly(elements []domain.OverpassElement) []domain.OverpassElement {
	nodes := make([]domain.OverpassElement, 0, len(elements))
	for _, el := range elements {
		if el.Type == "node" {
			nodes = append(nodes, el)
		}
	}
	return nodes
}
