package domain

import (
	"sort"

	"github.com/ev-spark-hub/internal/pkg/utils"
)

// DeduplicateStations оставляет по одной записи на округлённую координату (6 знаков).
// При коллизии побеждает запись с меньшим DistanceKm, при равенстве - первая встреченная.
// Результат отсортирован по возрастанию расстояния (стабильно).
func DeduplicateStations(records []StationRecord) []StationRecord {
	if len(records) == 0 {
		return []StationRecord{}
	}

	index := make(map[string]int, len(records))
	result := make([]StationRecord, 0, len(records))

	for _, rec := range records {
		key := utils.CoordinateKey(rec.Coordinates.Lat, rec.Coordinates.Lon)
		if i, ok := index[key]; ok {
			if rec.DistanceKm < result[i].DistanceKm {
				result[i] = rec
			}
			continue
		}
		index[key] = len(result)
		result = append(result, rec)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})

	return result
}

// MergeStations объединяет списки из нескольких источников относительно точки ref:
// пересчитывает расстояния (входящим DistanceKm не доверяем), дедуплицирует и сортирует.
// Входные срезы не изменяются.
func MergeStations(ref Point, lists ...[]StationRecord) []StationRecord {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	combined := make([]StationRecord, 0, total)
	for _, l := range lists {
		for _, rec := range l {
			rec.DistanceKm = utils.DistanceKm(ref.Lat, ref.Lon, rec.Coordinates.Lat, rec.Coordinates.Lon)
			combined = append(combined, rec)
		}
	}

	return DeduplicateStations(combined)
}
