package openchargemap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ev-spark-hub/internal/config"
	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"go.uber.org/zap"
)

// defaultPowerKW - мощность, если ни одно подключение не указало PowerKW
const defaultPowerKW = 7.4

type client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	countryCode string
	maxResults  int
	logger      *zap.Logger
}

// NewOpenChargeMapClient создает клиент для Open Charge Map API
func NewOpenChargeMapClient(cfg *config.OpenChargeMapConfig, logger *zap.Logger) repository.OpenChargeMapRepository {
	return &client{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		countryCode: cfg.CountryCode,
		maxResults:  cfg.MaxResults,
		logger:      logger.Named("openchargemap"),
	}
}

// FindNearby возвращает станции вокруг точки. DistanceKm не заполняется.
func (c *client) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.StationRecord, error) {
	params := url.Values{}
	params.Set("output", "json")
	if c.countryCode != "" {
		params.Set("countrycode", c.countryCode)
	}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("distance", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	params.Set("distanceunit", "KM")
	params.Set("maxresults", strconv.Itoa(c.maxResults))
	params.Set("compact", "true")
	params.Set("verbose", "false")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var pois []poi
	if err := c.get(ctx, c.baseURL+"/poi/?"+params.Encode(), &pois); err != nil {
		return nil, err
	}

	records := make([]domain.StationRecord, 0, len(pois))
	for i := range pois {
		records = append(records, mapPOI(&pois[i]))
	}

	c.logger.Debug("Open Charge Map stations fetched", zap.Int("count", len(records)))
	return records, nil
}

// GetStation получает станцию по ID Open Charge Map
func (c *client) GetStation(ctx context.Context, id int64) (*domain.StationRecord, error) {
	params := url.Values{}
	params.Set("output", "json")
	params.Set("compact", "true")
	params.Set("verbose", "false")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var pois []poi
	if err := c.get(ctx, fmt.Sprintf("%s/poi/%d?%s", c.baseURL, id, params.Encode()), &pois); err != nil {
		return nil, err
	}
	if len(pois) == 0 {
		return nil, errors.ErrStationNotFound
	}

	rec := mapPOI(&pois[0])
	return &rec, nil
}

func (c *client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Open Charge Map API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("open charge map API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func mapPOI(p *poi) domain.StationRecord {
	operator := "Independent Operator"
	if p.OperatorInfo != nil && p.OperatorInfo.Title != "" {
		operator = p.OperatorInfo.Title
	}

	name := p.AddressInfo.Title
	if name == "" {
		name = operator + " Charging Station"
	}

	maxKW := 0.0
	connectors := make([]string, 0, len(p.Connections))
	seen := make(map[string]bool)
	for _, conn := range p.Connections {
		if conn.PowerKW != nil && *conn.PowerKW > maxKW {
			maxKW = *conn.PowerKW
		}
		if conn.ConnectionType != nil && conn.ConnectionType.Title != "" && !seen[conn.ConnectionType.Title] {
			seen[conn.ConnectionType.Title] = true
			connectors = append(connectors, conn.ConnectionType.Title)
		}
	}
	if maxKW == 0 {
		maxKW = defaultPowerKW
	}

	rec := domain.StationRecord{
		ID:               fmt.Sprintf("%s%d", domain.OCMIDPrefix, p.ID),
		Coordinates:      domain.Point{Lat: p.AddressInfo.Latitude, Lon: p.AddressInfo.Longitude},
		Name:             name,
		Operator:         operator,
		Power:            domain.FormatKW(maxKW),
		Speed:            domain.SpeedFromKW(maxKW),
		Access:           domain.DefaultAccess,
		Status:           status(p.StatusType),
		LastStatusUpdate: p.DateLastStatusUpdate,
		Source:           domain.SourceOpenChargeMap,
		Capacity:         p.NumberOfPoints,
		ConnectorTypes:   connectors,
	}
	if len(connectors) > 0 {
		rec.Socket = connectors[0]
	}
	if p.UsageType != nil {
		if p.UsageType.Title != "" {
			rec.Access = p.UsageType.Title
		}
		rec.Fee = p.UsageType.IsPayAtLocation != nil && *p.UsageType.IsPayAtLocation
	}
	if p.UsageCost != "" && !strings.EqualFold(p.UsageCost, "free") {
		rec.Fee = true
	}

	return rec
}

func status(s *statusType) domain.StationStatus {
	if s == nil || s.IsOperational == nil {
		return domain.StationStatusUnknown
	}
	if *s.IsOperational {
		return domain.StationStatusOperational
	}
	return domain.StationStatusOutOfOrder
}
