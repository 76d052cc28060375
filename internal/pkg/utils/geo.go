package utils

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceKm - расстояние по haversine, округлённое до 0.1 км
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return RoundTo(HaversineDistance(lat1, lon1, lat2, lon2), 1)
}

// RoundTo округляет значение до заданного числа знаков после запятой
func RoundTo(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}

// CoordinateKey - ключ дедупликации: координаты с точностью 6 знаков (~10 см).
// Значения, округляющиеся к нулю, дают "0.000000" независимо от знака.
func CoordinateKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", keyPart(lat), keyPart(lon))
}

func keyPart(v float64) float64 {
	r := RoundTo(v, 6)
	if r == 0 {
		return 0
	}
	return r
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius проверяет валидность радиуса (0.1 - 100 км)
func ValidateRadius(radiusKm float64) bool {
	return radiusKm >= 0.1 && radiusKm <= 100
}

// NormalizeRadius возвращает радиус или значение по умолчанию, если радиус невалиден
func NormalizeRadius(radiusKm, fallback float64) float64 {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return fallback
	}
	return radiusKm
}
