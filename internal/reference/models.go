// Package reference resolves airport, airline and aircraft reference data for a search run.
package reference

import (
	"context"

	"github.com/i474232898/flight-weather-insights/internal/geo"
)

// Airport is the directory record for one IATA code.
type Airport struct {
	IATA    string   `json:"iataCode"`
	Name    string   `json:"name"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	SubType string   `json:"subType"`
	Lat     *float64 `json:"latitude,omitempty"`
	Lon     *float64 `json:"longitude,omitempty"`
}

// Point returns the airport coordinates.
func (a Airport) Point() geo.Point {
	return geo.Point{Lat: a.Lat, Lon: a.Lon}
}

// HasCoordinates reports whether both coordinates are known.
func (a Airport) HasCoordinates() bool {
	return a.Lat != nil && a.Lon != nil
}

// Candidate is one result of a free-text location search.
type Candidate struct {
	Name    string   `json:"name"`
	IATA    string   `json:"iata"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"latitude"`
	Lon     *float64 `json:"longitude"`
	Type    string   `json:"type"`
}

// AirportDirectory looks up a single airport. A nil Airport with a nil error means not found.
type AirportDirectory interface {
	AirportByCode(ctx context.Context, iata string) (*Airport, error)
}

// AirlineDirectory resolves a carrier code to its business name. "" means no match.
type AirlineDirectory interface {
	AirlineName(ctx context.Context, carrier string) (string, error)
}

// LocationDirectory searches cities and airports by free text.
type LocationDirectory interface {
	SearchLocations(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// Directory is the full Location Directory contract.
type Directory interface {
	AirportDirectory
	AirlineDirectory
	LocationDirectory
}
