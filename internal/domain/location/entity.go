package location

import "context"

// CityCoordinate is one row of the city reference table.
type CityCoordinate struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordinateProvider supplies the city reference table keyed by exact city name.
type CoordinateProvider interface {
	Coordinates(ctx context.Context) (map[string]CityCoordinate, error)
}
