package weather

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/flight-weather-insights/internal/common"
	"github.com/i474232898/flight-weather-insights/internal/metrics"
)

// Service turns per-location forecast feeds into weather rows.
type Service struct {
	source ForecastSource
	log    *zap.SugaredLogger
	newID  func() string
}

// NewService creates a new Service.
func NewService(source ForecastSource, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		source: source,
		log:    log,
		newID:  uuid.NewString,
	}
}

// WithIDGenerator overrides how location ids are generated.
func (s *Service) WithIDGenerator(newID func() string) *Service {
	s.newID = newID
	return s
}

// Collect fetches the forecast once per location, sequentially, and aggregates it into one
// row per (location, date). A failing location contributes no rows.
func (s *Service) Collect(ctx context.Context, locations []Location, start time.Time, days int, fetchedAt time.Time) []Row {
	var rows []Row
	for _, loc := range locations {
		feed, err := s.source.Forecast(ctx, loc.Lat, loc.Lon)
		if err != nil {
			s.log.Errorw("weather forecast failed",
				"provider", s.source.Name(), "iata", loc.IATA, "lat", loc.Lat, "lon", loc.Lon, "error", err)
			metrics.DegradedUnitsTotal.WithLabelValues("weather").Inc()
			continue
		}

		records := AggregateDays(feed, start, days, fetchedAt)
		if len(records) < days {
			s.log.Warnw("forecast does not cover every day",
				"iata", loc.IATA, "days", days, "covered", len(records))
		}

		for _, rec := range records {
			rows = append(rows, Row{
				LocationID:   s.newID(),
				IATA:         loc.IATA,
				LocationType: loc.Type,
				Latitude:     common.FormatFloat(loc.Lat),
				Longitude:    common.FormatFloat(loc.Lon),
				DayRecord:    rec,
			})
		}
	}
	return rows
}
