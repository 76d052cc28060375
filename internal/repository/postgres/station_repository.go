package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const stationColumns = `
	id, name, address, lat, lon, operator, connector_types, power_kw, price_per_kwh,
	total_ports, available_ports, status, fee, access, created_at, updated_at`

// stationRow - строка charging_stations (TEXT[] через pq.StringArray)
type stationRow struct {
	domain.ChargingStation
	Connectors pq.StringArray `db:"connector_types"`
}

func (r stationRow) toDomain() *domain.ChargingStation {
	s := r.ChargingStation
	s.ConnectorTypes = []string(r.Connectors)
	if s.ConnectorTypes == nil {
		s.ConnectorTypes = []string{}
	}
	return &s
}

type stationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewStationRepository(db *DB) repository.StationRepository {
	return &stationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *stationRepository) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*domain.ChargingStation, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS geom
		)
		SELECT ` + stationColumns + `
		FROM charging_stations s, point p
		WHERE ST_DWithin(s.geom, p.geom, $3)
		ORDER BY ST_Distance(s.geom, p.geom)
		LIMIT $4
	`

	var rows []stationRow
	if err := r.db.SelectContext(ctx, &rows, query, lon, lat, radiusKm*1000, limit); err != nil {
		r.logger.Error("Failed to find nearby stations",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Float64("radius_km", radiusKm),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return toStations(rows), nil
}

func (r *stationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChargingStation, error) {
	query := `SELECT ` + stationColumns + ` FROM charging_stations WHERE id = $1`

	var row stationRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrStationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get station by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return row.toDomain(), nil
}

func (r *stationRepository) List(ctx context.Context, filter domain.StationFilter) ([]*domain.ChargingStation, int, error) {
	where, args := buildStationFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM charging_stations` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		r.logger.Error("Failed to count stations", zap.Error(err))
		return nil, 0, errors.ErrDatabaseError
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM charging_stations%s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		stationColumns, where, len(args)-1, len(args))

	var rows []stationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to list stations", zap.Error(err))
		return nil, 0, errors.ErrDatabaseError
	}

	return toStations(rows), total, nil
}

// buildStationFilter собирает WHERE и аргументы по фильтру
func buildStationFilter(f domain.StationFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		add("(name ILIKE $%[1]d OR address ILIKE $%[1]d)", "%"+s+"%")
	}
	if f.MinPrice != nil {
		add("price_per_kwh >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price_per_kwh <= $%d", *f.MaxPrice)
	}
	if f.AvailableOnly {
		conds = append(conds, "available_ports > 0")
	}
	if len(f.Speeds) > 0 {
		// скорость определяется по power_kw теми же порогами, что и SpeedFromKW
		var speedConds []string
		for _, speed := range f.Speeds {
			if cond, ok := speedRanges[speed]; ok {
				speedConds = append(speedConds, cond)
			}
		}
		if len(speedConds) > 0 {
			conds = append(conds, "("+strings.Join(speedConds, " OR ")+")")
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var speedRanges = map[string]string{
	"Ultra Fast": "power_kw >= 150",
	"Fast":       "(power_kw >= 50 AND power_kw < 150)",
	"Rapid":      "(power_kw >= 22 AND power_kw < 50)",
	"Normal":     "(power_kw >= 7 AND power_kw < 22)",
	"Slow":       "power_kw < 7",
}

func (r *stationRepository) Create(ctx context.Context, s *domain.ChargingStation) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	if s.Access == "" {
		s.Access = domain.DefaultAccess
	}
	if s.Status == "" {
		s.Status = string(domain.StationStatusOperational)
	}

	query := `
		INSERT INTO charging_stations (
			id, name, address, lat, lon, geom, operator, connector_types, power_kw,
			price_per_kwh, total_ports, available_ports, status, fee, access, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($5, $4), 4326)::geography, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16
		)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Address, s.Lat, s.Lon, s.Operator, pq.Array(nonNil(s.ConnectorTypes)), s.PowerKW,
		s.PricePerKwh, s.TotalPorts, s.AvailablePorts, s.Status, s.Fee, s.Access, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create station", zap.String("name", s.Name), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *stationRepository) Update(ctx context.Context, s *domain.ChargingStation) error {
	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE charging_stations SET
			name = $2, address = $3, lat = $4, lon = $5,
			geom = ST_SetSRID(ST_MakePoint($5, $4), 4326)::geography,
			operator = $6, connector_types = $7, power_kw = $8, price_per_kwh = $9,
			total_ports = $10, available_ports = $11, status = $12, fee = $13, access = $14,
			updated_at = $15
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Address, s.Lat, s.Lon, s.Operator, pq.Array(nonNil(s.ConnectorTypes)), s.PowerKW,
		s.PricePerKwh, s.TotalPorts, s.AvailablePorts, s.Status, s.Fee, s.Access, s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update station", zap.String("id", s.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return requireAffected(res, errors.ErrStationNotFound)
}

func (r *stationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charging_stations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete station", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return requireAffected(res, errors.ErrStationNotFound)
}

func toStations(rows []stationRow) []*domain.ChargingStation {
	stations := make([]*domain.ChargingStation, 0, len(rows))
	for _, row := range rows {
		stations = append(stations, row.toDomain())
	}
	return stations
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseError
	}
	if n == 0 {
		return notFound
	}
	return nil
}
