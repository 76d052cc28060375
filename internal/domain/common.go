package domain

type Point struct {
	Lat float64 `json:"lat" db:"lat" yaml:"lat"`
	Lon float64 `json:"lon" db:"lon" yaml:"lon"`
}
