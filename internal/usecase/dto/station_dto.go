package dto

import "github.com/ev-spark-hub/internal/domain"

// NearbyStationsRequest - запрос на поиск станций вокруг точки
type NearbyStationsRequest struct {
	Lat       float64 `json:"lat" validate:"latitude"`
	Lon       float64 `json:"lon" validate:"longitude"`
	RadiusKm  float64 `json:"radius_km" validate:"omitempty,min=0,max=100"`
	SurfaceID string  `json:"surface_id,omitempty" validate:"omitempty,max=128"`
}

// NearbyStationsResponse - ответ с агрегированными станциями
type NearbyStationsResponse struct {
	Stations  []domain.StationRecord `json:"stations"`
	Total     int                    `json:"total"`
	RadiusKm  float64                `json:"radius_km"`
	Center    domain.Point           `json:"center"`
	Sources   map[string]int         `json:"sources"`
	SurfaceID string                 `json:"surface_id,omitempty"`
	// Applied - false, если ответ устарел и не попал в видимый список поверхности
	Applied bool `json:"applied"`
}

// SurfaceResponse - текущий видимый список станций поверхности
type SurfaceResponse struct {
	SurfaceID string                 `json:"surface_id"`
	Stations  []domain.StationRecord `json:"stations"`
	Total     int                    `json:"total"`
}

// StationListRequest - фильтры списка станций из собственной базы
type StationListRequest struct {
	Search        string   `query:"search" validate:"omitempty,max=100"`
	MinPrice      *float64 `query:"min_price" validate:"omitempty,min=0"`
	MaxPrice      *float64 `query:"max_price" validate:"omitempty,min=0"`
	AvailableOnly bool     `query:"available_only"`
	Speeds        []string `query:"speeds" validate:"omitempty,dive,oneof='Ultra Fast' Fast Rapid Normal Slow"`
	Limit         int      `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset        int      `query:"offset" validate:"omitempty,min=0"`
}

// StationListResponse - страница станций
type StationListResponse struct {
	Stations []*domain.ChargingStation `json:"stations"`
	Total    int                       `json:"total"`
}

// StationUpsertRequest - создание или изменение станции
type StationUpsertRequest struct {
	Name           string   `json:"name" validate:"required,min=2,max=200"`
	Address        string   `json:"address" validate:"omitempty,max=500"`
	Lat            float64  `json:"lat" validate:"latitude"`
	Lon            float64  `json:"lon" validate:"longitude"`
	Operator       string   `json:"operator" validate:"omitempty,max=200"`
	ConnectorTypes []string `json:"connector_types" validate:"omitempty,max=10,dive,min=1,max=50"`
	PowerKW        float64  `json:"power_kw" validate:"min=0,max=1000"`
	PricePerKwh    float64  `json:"price_per_kwh" validate:"min=0"`
	TotalPorts     int      `json:"total_ports" validate:"min=0"`
	AvailablePorts int      `json:"available_ports" validate:"min=0,ltefield=TotalPorts"`
	Status         string   `json:"status" validate:"omitempty,oneof=operational out_of_order under_construction unknown"`
	Fee            bool     `json:"fee"`
	Access         string   `json:"access" validate:"omitempty,max=100"`
}

// ToDomain переносит поля запроса в станцию
func (r *StationUpsertRequest) ToDomain(s *domain.ChargingStation) {
	s.Name = r.Name
	s.Address = r.Address
	s.Lat = r.Lat
	s.Lon = r.Lon
	s.Operator = r.Operator
	s.ConnectorTypes = r.ConnectorTypes
	s.PowerKW = r.PowerKW
	s.PricePerKwh = r.PricePerKwh
	s.TotalPorts = r.TotalPorts
	s.AvailablePorts = r.AvailablePorts
	s.Status = r.Status
	s.Fee = r.Fee
	s.Access = r.Access
}
