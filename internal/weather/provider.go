package weather

import (
	"context"
)

// ForecastSource abstracts a multi-day, multi-sample-per-day forecast feed
// (e.g. the OpenWeatherMap 5 day / 3 hour forecast).
type ForecastSource interface {
	Name() string
	Forecast(ctx context.Context, lat, lon float64) (Feed, error)
}
