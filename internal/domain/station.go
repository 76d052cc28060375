package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// StationStatus - нормализованный статус станции
type StationStatus string

const (
	StationStatusOperational       StationStatus = "operational"
	StationStatusOutOfOrder        StationStatus = "out_of_order"
	StationStatusUnderConstruction StationStatus = "under_construction"
	StationStatusUnknown           StationStatus = "unknown"
)

// StationSource - источник, из которого получена запись
type StationSource string

const (
	SourceOverpass      StationSource = "overpass"
	SourceOpenChargeMap StationSource = "open_charge_map"
	SourceDatabase      StationSource = "database"
	SourceSeed          StationSource = "seed"
)

// Префиксы идентификаторов по источникам
const (
	OverpassIDPrefix = "overpass-"
	OCMIDPrefix      = "ocm-"
	SeedIDPrefix     = "seed-"
)

const DefaultAccess = "Public"

// StationRecord - нормализованная запись о зарядной станции, не зависящая от источника
type StationRecord struct {
	ID               string        `json:"id"`
	Coordinates      Point         `json:"coordinates"`
	Name             string        `json:"name"`
	Operator         string        `json:"operator,omitempty"`
	Network          string        `json:"network,omitempty"`
	Socket           string        `json:"socket,omitempty"`
	Speed            string        `json:"speed,omitempty"`
	Power            string        `json:"power,omitempty"`
	Fee              bool          `json:"fee"`
	Access           string        `json:"access"`
	Status           StationStatus `json:"status,omitempty"`
	DistanceKm       float64       `json:"distance_km"`
	LastStatusUpdate string        `json:"last_status_update,omitempty"`
	Source           StationSource `json:"source"`
	Capacity         *int          `json:"capacity,omitempty"`
	PricePerKwh      *float64      `json:"price_per_kwh,omitempty"`
	ConnectorTypes   []string      `json:"connector_types,omitempty"`
}

// NormalizeStatus приводит произвольное значение статуса к множеству StationStatus.
// Пустая строка означает отсутствие информации о статусе.
func NormalizeStatus(raw string) StationStatus {
	switch raw {
	case "":
		return ""
	case "operational", "yes", "active", "available", "true":
		return StationStatusOperational
	case "out_of_order", "broken", "closed", "defunct", "faulty", "no", "false":
		return StationStatusOutOfOrder
	case "under_construction", "construction", "planned":
		return StationStatusUnderConstruction
	default:
		return StationStatusUnknown
	}
}

// SpeedFromKW - категория скорости зарядки по мощности
func SpeedFromKW(kw float64) string {
	switch {
	case kw >= 150:
		return "Ultra Fast"
	case kw >= 50:
		return "Fast"
	case kw >= 22:
		return "Rapid"
	case kw >= 7:
		return "Normal"
	default:
		return "Slow"
	}
}

// FormatKW - "22 kW", "7.4 kW"
func FormatKW(kw float64) string {
	return strconv.FormatFloat(kw, 'f', -1, 64) + " kW"
}

// ChargingStation - станция из собственной базы (таблица charging_stations)
type ChargingStation struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Address        string    `json:"address" db:"address"`
	Lat            float64   `json:"lat" db:"lat"`
	Lon            float64   `json:"lon" db:"lon"`
	Operator       string    `json:"operator" db:"operator"`
	ConnectorTypes []string  `json:"connector_types" db:"-"`
	PowerKW        float64   `json:"power_kw" db:"power_kw"`
	PricePerKwh    float64   `json:"price_per_kwh" db:"price_per_kwh"`
	TotalPorts     int       `json:"total_ports" db:"total_ports"`
	AvailablePorts int       `json:"available_ports" db:"available_ports"`
	Status         string    `json:"status" db:"status"`
	Fee            bool      `json:"fee" db:"fee"`
	Access         string    `json:"access" db:"access"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ToRecord преобразует станцию из базы в нормализованную запись
func (s *ChargingStation) ToRecord() StationRecord {
	access := s.Access
	if access == "" {
		access = DefaultAccess
	}
	operator := s.Operator
	if operator == "" {
		operator = "Unknown Operator"
	}

	rec := StationRecord{
		ID:             s.ID.String(),
		Coordinates:    Point{Lat: s.Lat, Lon: s.Lon},
		Name:           s.Name,
		Operator:       operator,
		Fee:            s.Fee,
		Access:         access,
		Status:         NormalizeStatus(s.Status),
		Source:         SourceDatabase,
		ConnectorTypes: s.ConnectorTypes,
	}
	if len(s.ConnectorTypes) > 0 {
		rec.Socket = s.ConnectorTypes[0]
	}
	if s.PowerKW > 0 {
		rec.Power = FormatKW(s.PowerKW)
		rec.Speed = SpeedFromKW(s.PowerKW)
	}
	if s.TotalPorts > 0 {
		ports := s.TotalPorts
		rec.Capacity = &ports
	}
	if s.PricePerKwh > 0 {
		price := s.PricePerKwh
		rec.PricePerKwh = &price
	}
	return rec
}

// StationFilter - фильтры для списка станций из базы
type StationFilter struct {
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	AvailableOnly bool
	Speeds        []string
	Limit         int
	Offset        int
}

// OverpassElement - элемент ответа Overpass API
type OverpassElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags,omitempty"`
}

// OverpassResponse - ответ Overpass API
type OverpassResponse struct {
	Elements []OverpassElement `json:"elements"`
}
