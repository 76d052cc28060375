package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed stations.yaml
var embeddedStations []byte

type seedFile struct {
	Stations []seedStation `yaml:"stations"`
}

type seedStation struct {
	Name     string  `yaml:"name"`
	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
	Operator string  `yaml:"operator"`
	Network  string  `yaml:"network"`
	Socket   string  `yaml:"socket"`
	PowerKW  float64 `yaml:"power_kw"`
	Fee      bool    `yaml:"fee"`
	Access   string  `yaml:"access"`
	Status   string  `yaml:"status"`
}

type seedRepository struct {
	records []domain.StationRecord
}

// NewSeedRepository загружает офлайн-станции из файла path, либо встроенный список, если path пуст
func NewSeedRepository(path string, logger *zap.Logger) (repository.SeedRepository, error) {
	data := embeddedStations
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = raw
	}

	records, err := parse(data)
	if err != nil {
		return nil, err
	}

	logger.Info("Seed stations loaded",
		zap.String("path", path),
		zap.Int("count", len(records)))

	return &seedRepository{records: records}, nil
}

func parse(data []byte) ([]domain.StationRecord, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed stations: %w", err)
	}

	records := make([]domain.StationRecord, 0, len(f.Stations))
	for i, s := range f.Stations {
		access := s.Access
		if access == "" {
			access = domain.DefaultAccess
		}
		operator := s.Operator
		if operator == "" {
			operator = "Unknown Operator"
		}

		rec := domain.StationRecord{
			ID:          fmt.Sprintf("%s%d", domain.SeedIDPrefix, i+1),
			Coordinates: domain.Point{Lat: s.Lat, Lon: s.Lon},
			Name:        s.Name,
			Operator:    operator,
			Network:     s.Network,
			Socket:      s.Socket,
			Fee:         s.Fee,
			Access:      access,
			Status:      domain.NormalizeStatus(s.Status),
			Source:      domain.SourceSeed,
		}
		if s.PowerKW > 0 {
			rec.Power = domain.FormatKW(s.PowerKW)
			rec.Speed = domain.SpeedFromKW(s.PowerKW)
		}
		records = append(records, rec)
	}

	return records, nil
}

// All возвращает копию списка; вызывающий может свободно менять записи
func (r *seedRepository) All() []domain.StationRecord {
	out := make([]domain.StationRecord, len(r.records))
	copy(out, r.records)
	return out
}
