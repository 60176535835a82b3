// Package pipeline runs one flight and weather search over a window of departure dates.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/flight-weather-insights/internal/flights"
	"github.com/i474232898/flight-weather-insights/internal/gapfill"
	"github.com/i474232898/flight-weather-insights/internal/geo"
	"github.com/i474232898/flight-weather-insights/internal/metrics"
	"github.com/i474232898/flight-weather-insights/internal/reference"
	"github.com/i474232898/flight-weather-insights/internal/store"
	"github.com/i474232898/flight-weather-insights/internal/table"
	"github.com/i474232898/flight-weather-insights/internal/weather"
)

// DefaultDays is the length of the search window.
const DefaultDays = 5

// ErrInvalidRequest is returned for requests that cannot be searched.
var ErrInvalidRequest = errors.New("invalid search request")

// Directory is the reference data the pipeline resolves airports and airlines with.
type Directory interface {
	reference.AirportDirectory
	reference.AirlineDirectory
}

// Request describes one search.
type Request struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
}

func (r Request) normalize() (Request, error) {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	switch {
	case len(r.Origin) != 3 || len(r.Destination) != 3:
		return r, fmt.Errorf("%w: origin and destination must be IATA codes", ErrInvalidRequest)
	case r.Origin == r.Destination:
		return r, fmt.Errorf("%w: origin and destination cannot be the same", ErrInvalidRequest)
	case r.DepartureDate.IsZero():
		return r, fmt.Errorf("%w: departure date is required", ErrInvalidRequest)
	}
	return r, nil
}

// Result is the outcome of a run. Warnings list every degraded unit of work.
type Result struct {
	Origin          string
	Destination     string
	Dates           []string
	RouteDistanceKm string
	Flights         *table.Table
	Weather         *table.Table
	Warnings        []string
}

func (r *Result) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Pipeline wires the sources, the reference directory and the sink. Runs do not share
// caches, so one Pipeline may serve concurrent runs.
type Pipeline struct {
	flights   flights.Source
	directory Directory
	forecasts weather.ForecastSource
	geocoder  reference.Geocoder
	sink      store.Sink

	days      int
	maxOffers int
	newID     func() string
	now       func() time.Time
	log       *zap.SugaredLogger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDays sets the window length.
func WithDays(days int) Option {
	return func(p *Pipeline) {
		if days > 0 {
			p.days = days
		}
	}
}

// WithMaxOffers sets how many offers are requested per date.
func WithMaxOffers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxOffers = n
		}
	}
}

// WithGeocoder enables the geocoding fallback for locations without coordinates.
func WithGeocoder(g reference.Geocoder) Option {
	return func(p *Pipeline) { p.geocoder = g }
}

// WithSink sets where assembled tables are saved.
func WithSink(s store.Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// WithIDGenerator overrides trip and location id generation.
func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) { p.newID = newID }
}

// WithClock overrides the clock used for fetch timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a Pipeline.
func New(source flights.Source, directory Directory, forecasts weather.ForecastSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		flights:   source,
		directory: directory,
		forecasts: forecasts,
		days:      DefaultDays,
		maxOffers: flights.DefaultMaxOffers,
		newID:     uuid.NewString,
		now:       time.Now,
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Days returns the window length.
func (p *Pipeline) Days() int {
	return p.days
}

// Run executes one search. Failures of single dates, locations and lookups degrade the
// result and are reported as warnings; an error is returned for invalid requests,
// cancellation, assembly failures and sink failures. On a sink failure the assembled
// result is returned along with the error.
func (p *Pipeline) Run(ctx context.Context, req Request) (res *Result, err error) {
	started := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RunsTotal.WithLabelValues(outcome).Inc()
		metrics.RunDuration.Observe(time.Since(started).Seconds())
	}()

	req, err = req.normalize()
	if err != nil {
		return nil, err
	}

	start := startOfDay(req.DepartureDate)
	dates := gapfill.Dates(start, p.days)
	res = &Result{Origin: req.Origin, Destination: req.Destination, Dates: dates}
	log := p.log.With("origin", req.Origin, "destination", req.Destination, "start", dates[0])
	log.Infow("search run started", "days", p.days)

	resolver := reference.NewResolver(p.directory, p.directory, reference.NewAirportCache(), log)
	calc := geo.NewCalculator(log)
	cache := flights.NewRunCache()
	locations := flights.NewLocationSet()

	origin, _ := resolver.Airport(ctx, req.Origin)
	destination, _ := resolver.Airport(ctx, req.Destination)
	locations.Add(flights.TrackedLocation{IATA: req.Origin, Role: flights.RoleOrigin, Lat: origin.Lat, Lon: origin.Lon})
	locations.Add(flights.TrackedLocation{IATA: req.Destination, Role: flights.RoleDestination, Lat: destination.Lat, Lon: destination.Lon})

	res.RouteDistanceKm = calc.DistanceKm(origin.Point(), destination.Point())
	if res.RouteDistanceKm == "" {
		res.warn("route distance unavailable for %s-%s", req.Origin, req.Destination)
	}

	builder := flights.NewBuilder(p.flights, resolver, calc, cache, locations,
		flights.WithMaxOffers(p.maxOffers),
		flights.WithIDGenerator(p.newID),
		flights.WithLogger(log))

	var flightRows []flights.Row
	for i := range dates {
		rows, err := builder.BuildDay(ctx, req.Origin, req.Destination, start.AddDate(0, 0, i))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnw("no flights for date", "date", dates[i], "error", err)
			metrics.DegradedUnitsTotal.WithLabelValues("flights").Inc()
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		flightRows = append(flightRows, rows...)
	}

	filledFlights, report := gapfill.Forward(dates, flightRows, gapfill.FlightOptions(p.newID))
	for _, gap := range report.Missing {
		res.warn("no flight data available to fill for %s", gap.Date)
	}
	metrics.RowsTotal.WithLabelValues(table.FlightsName, "native").Add(float64(len(flightRows)))
	metrics.RowsTotal.WithLabelValues(table.FlightsName, "filled").Add(float64(report.Filled))

	targets := p.weatherTargets(ctx, resolver, locations.All(), res, log)
	weatherRows := weather.NewService(p.forecasts, log).
		WithIDGenerator(p.newID).
		Collect(ctx, targets, start, p.days, p.now())
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	covered := make(map[string]bool, len(targets))
	for _, r := range weatherRows {
		covered[r.IATA] = true
	}
	for _, t := range targets {
		if !covered[t.IATA] {
			res.warn("no weather forecast for %s", t.IATA)
		}
	}

	filledWeather, wreport := gapfill.Forward(dates, weatherRows, gapfill.WeatherOptions(p.newID))
	for _, gap := range wreport.Missing {
		res.warn("no weather data available to fill for %s on %s", gap.Group, gap.Date)
	}
	metrics.RowsTotal.WithLabelValues(table.WeatherName, "native").Add(float64(len(weatherRows)))
	metrics.RowsTotal.WithLabelValues(table.WeatherName, "filled").Add(float64(wreport.Filled))

	if res.Flights, err = table.Flights(filledFlights); err != nil {
		return nil, fmt.Errorf("assemble flights: %w", err)
	}
	if res.Weather, err = table.Weather(filledWeather); err != nil {
		return nil, fmt.Errorf("assemble weather: %w", err)
	}

	if err := p.save(ctx, res, log); err != nil {
		return res, err
	}

	log.Infow("search run finished",
		"flight_rows", res.Flights.Len(),
		"weather_rows", res.Weather.Len(),
		"warnings", len(res.Warnings),
		"duration", time.Since(started))
	return res, nil
}

// weatherTargets returns the locations with usable coordinates, completing missing ones
// from the directory and then the geocoder.
func (p *Pipeline) weatherTargets(ctx context.Context, resolver *reference.Resolver, tracked []flights.TrackedLocation, res *Result, log *zap.SugaredLogger) []weather.Location {
	targets := make([]weather.Location, 0, len(tracked))
	for _, loc := range tracked {
		point := geo.Point{Lat: loc.Lat, Lon: loc.Lon}
		if !point.Valid() {
			airport, found := resolver.Airport(ctx, loc.IATA)
			if found && airport.HasCoordinates() {
				point = airport.Point()
			} else if p.geocoder != nil && found {
				gp, err := p.geocoder.Geocode(ctx, airport.City, airport.Country)
				if err != nil {
					log.Warnw("geocoding failed", "iata", loc.IATA, "error", err)
				} else {
					point = gp
				}
			}
		}
		if !point.Valid() {
			res.warn("no coordinates for %s, weather skipped", loc.IATA)
			continue
		}
		targets = append(targets, weather.Location{
			IATA: loc.IATA,
			Type: string(loc.Role),
			Lat:  *point.Lat,
			Lon:  *point.Lon,
		})
	}
	return targets
}

func (p *Pipeline) save(ctx context.Context, res *Result, log *zap.SugaredLogger) error {
	if p.sink == nil {
		return nil
	}
	var errs []error
	for _, t := range []*table.Table{res.Flights, res.Weather} {
		if t.Empty() {
			log.Warnw("no data to save", "file", store.FileName(t))
			res.warn("no data to save for %s", store.FileName(t))
			continue
		}
		if err := p.sink.Save(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", store.FileName(t), err))
		}
	}
	return errors.Join(errs...)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
