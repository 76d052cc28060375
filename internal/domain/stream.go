package domain

// Stream names
const (
	StreamStationsPrefetch = "stream:stations:prefetch"
	StreamPaymentDone      = "stream:payment:done"
)

// StationPrefetchEvent - запрос на прогрев кеша Overpass для области
type StationPrefetchEvent struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
}

// Valid проверяет координаты события
func (e *StationPrefetchEvent) Valid() bool {
	return e.Lat >= -90 && e.Lat <= 90 && e.Lon >= -180 && e.Lon <= 180
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
