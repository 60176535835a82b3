package reference

import (
	"context"
	"errors"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/flight-weather-insights/internal/common"
	"github.com/i474232898/flight-weather-insights/internal/geo"
)

// ErrNoAddress is returned when there is nothing to geocode.
var ErrNoAddress = errors.New("no city or country to geocode")

// Geocoder turns a city/country pair into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) (geo.Point, error)
}

// GoogleGeocoder geocodes through the Google Maps Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the package-level API key used by kelvins/geocoder.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, city, country string) (geo.Point, error) {
	if strings.TrimSpace(city) == "" && strings.TrimSpace(country) == "" {
		return geo.Point{}, ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return geo.Point{}, err
	}
	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    city,
		Country: country,
	})
	if err != nil {
		return geo.Point{}, common.External("geocoder", "geocoding", err)
	}
	return geo.NewPoint(loc.Latitude, loc.Longitude), nil
}
