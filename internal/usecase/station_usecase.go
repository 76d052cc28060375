package usecase

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"
	"sync"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StationUseCase агрегирует станции из всех источников и управляет собственным каталогом
type StationUseCase struct {
	geo           repository.GeoSource
	ocm           repository.OpenChargeMapRepository
	stationRepo   repository.StationRepository
	seed          repository.SeedRepository
	feed          *StationFeed
	defaultRadius float64
	logger        *zap.Logger
}

// NewStationUseCase создает use case станций. ocm и seed могут быть nil (источник отключён).
func NewStationUseCase(
	geo repository.GeoSource,
	ocm repository.OpenChargeMapRepository,
	stationRepo repository.StationRepository,
	seed repository.SeedRepository,
	feed *StationFeed,
	defaultRadius float64,
	logger *zap.Logger,
) *StationUseCase {
	if defaultRadius <= 0 {
		defaultRadius = 5
	}
	return &StationUseCase{
		geo:           geo,
		ocm:           ocm,
		stationRepo:   stationRepo,
		seed:          seed,
		feed:          feed,
		defaultRadius: defaultRadius,
		logger:        logger,
	}
}

// FindNearby опрашивает источники параллельно, объединяет и ранжирует результат.
// С SurfaceID результат применяется к поверхности только если запрос всё ещё самый новый.
func (uc *StationUseCase) FindNearby(ctx context.Context, req dto.NearbyStationsRequest) (*dto.NearbyStationsResponse, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	radius := utils.NormalizeRadius(req.RadiusKm, uc.defaultRadius)

	var token QueryToken
	if req.SurfaceID != "" {
		token = uc.feed.Begin(req.SurfaceID)
	}

	var wg sync.WaitGroup
	var geoList, ocmList, dbList []domain.StationRecord

	wg.Add(1)
	go func() {
		defer wg.Done()
		geoList = uc.geo.FindChargingStations(ctx, req.Lat, req.Lon, radius)
	}()

	if uc.ocm != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := uc.ocm.FindNearby(ctx, req.Lat, req.Lon, radius)
			if err != nil {
				uc.logger.Warn("Open Charge Map unavailable, continuing without it", zap.Error(err))
				return
			}
			ocmList = records
		}()
	}

	if uc.stationRepo != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stations, err := uc.stationRepo.FindNearby(ctx, req.Lat, req.Lon, radius, 200)
			if err != nil {
				uc.logger.Warn("Station store unavailable, continuing without it", zap.Error(err))
				return
			}
			dbList = make([]domain.StationRecord, 0, len(stations))
			for _, s := range stations {
				dbList = append(dbList, s.ToRecord())
			}
		}()
	}

	wg.Wait()

	center := domain.Point{Lat: req.Lat, Lon: req.Lon}
	sources := map[string]int{
		string(domain.SourceDatabase):      len(dbList),
		string(domain.SourceOverpass):      len(geoList),
		string(domain.SourceOpenChargeMap): len(ocmList),
	}

	var stations []domain.StationRecord
	if len(geoList)+len(ocmList)+len(dbList) == 0 && uc.seed != nil {
		uc.logger.Info("All live sources empty, using seed stations",
			zap.Float64("lat", req.Lat),
			zap.Float64("lon", req.Lon))
		stations = withinRadius(domain.MergeStations(center, uc.seed.All()), radius)
		sources[string(domain.SourceSeed)] = len(stations)
	} else {
		// собственный каталог первым: при совпадении координат и расстояния побеждает он
		stations = domain.MergeStations(center, dbList, geoList, ocmList)
	}

	resp := &dto.NearbyStationsResponse{
		Stations:  stations,
		Total:     len(stations),
		RadiusKm:  radius,
		Center:    center,
		Sources:   sources,
		SurfaceID: req.SurfaceID,
		Applied:   true,
	}

	if req.SurfaceID != "" {
		resp.Applied = uc.feed.Apply(token, stations)
		if !resp.Applied {
			uc.logger.Debug("Discarding stale station response",
				zap.String("surface_id", req.SurfaceID),
				zap.Uint64("seq", token.Seq))
		}
	}

	uc.logger.Info("Nearby stations aggregated",
		zap.Float64("lat", req.Lat),
		zap.Float64("lon", req.Lon),
		zap.Float64("radius_km", radius),
		zap.Int("total", len(stations)))

	return resp, nil
}

func withinRadius(records []domain.StationRecord, radiusKm float64) []domain.StationRecord {
	out := records[:0]
	for _, r := range records {
		if r.DistanceKm <= radiusKm {
			out = append(out, r)
		}
	}
	return out
}

// GetSurface возвращает видимый список станций поверхности
func (uc *StationUseCase) GetSurface(surface string) (*dto.SurfaceResponse, error) {
	stations, ok := uc.feed.Visible(surface)
	if !ok {
		return nil, errors.ErrSurfaceNotFound
	}
	return &dto.SurfaceResponse{SurfaceID: surface, Stations: stations, Total: len(stations)}, nil
}

// DropSurface удаляет поверхность; запросы в полёте для неё будут отброшены
func (uc *StationUseCase) DropSurface(surface string) error {
	if !uc.feed.Drop(surface) {
		return errors.ErrSurfaceNotFound
	}
	return nil
}

// GetStation находит станцию по идентификатору в источнике, определяемом префиксом id
func (uc *StationUseCase) GetStation(ctx context.Context, id string) (*domain.StationRecord, error) {
	switch {
	case strings.HasPrefix(id, domain.OverpassIDPrefix):
		nodeID, err := parseLeadingInt(strings.TrimPrefix(id, domain.OverpassIDPrefix))
		if err != nil {
			return nil, errors.ErrStationNotFound
		}
		return uc.geo.GetStationDetails(ctx, nodeID)

	case strings.HasPrefix(id, domain.OCMIDPrefix):
		if uc.ocm == nil {
			return nil, errors.ErrStationNotFound
		}
		ocmID, err := strconv.ParseInt(strings.TrimPrefix(id, domain.OCMIDPrefix), 10, 64)
		if err != nil {
			return nil, errors.ErrStationNotFound
		}
		rec, err := uc.ocm.GetStation(ctx, ocmID)
		if err != nil {
			if stderrors.Is(err, errors.ErrStationNotFound) {
				return nil, errors.ErrStationNotFound
			}
			uc.logger.Error("Failed to get Open Charge Map station", zap.String("id", id), zap.Error(err))
			return nil, errors.ErrUpstreamError
		}
		return rec, nil

	case strings.HasPrefix(id, domain.SeedIDPrefix):
		if uc.seed == nil {
			return nil, errors.ErrStationNotFound
		}
		for _, rec := range uc.seed.All() {
			if rec.ID == id {
				return &rec, nil
			}
		}
		return nil, errors.ErrStationNotFound
	}

	stationID, err := uuid.Parse(id)
	if err != nil || uc.stationRepo == nil {
		return nil, errors.ErrStationNotFound
	}
	station, err := uc.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	rec := station.ToRecord()
	return &rec, nil
}

// parseLeadingInt разбирает "<nodeId>-..." из id записи Overpass
func parseLeadingInt(s string) (int64, error) {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseInt(s, 10, 64)
}
