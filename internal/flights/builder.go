package flights

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/flight-weather-insights/internal/common"
	"github.com/i474232898/flight-weather-insights/internal/geo"
	"github.com/i474232898/flight-weather-insights/internal/reference"
)

// DefaultMaxOffers is the number of offers requested per date.
const DefaultMaxOffers = 10

// ErrNoOffers is returned when the source has nothing for a date.
var ErrNoOffers = errors.New("no flights found")

// Builder converts offers into rows for one search run. It owns the run caches and is not
// safe for concurrent use.
type Builder struct {
	source    Source
	resolver  *reference.Resolver
	calc      *geo.Calculator
	cache     *RunCache
	locations *LocationSet
	maxOffers int
	newID     func() string
	log       *zap.SugaredLogger

	cabinStrategies    []CabinStrategy
	distanceStrategies []DistanceStrategy
}

// Option customizes a Builder.
type Option func(*Builder)

// WithMaxOffers sets how many offers are requested per date.
func WithMaxOffers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxOffers = n
		}
	}
}

// WithIDGenerator overrides trip id generation.
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) { b.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBuilder creates a Builder. cache and locations are shared with the rest of the run.
func NewBuilder(source Source, resolver *reference.Resolver, calc *geo.Calculator, cache *RunCache, locations *LocationSet, opts ...Option) *Builder {
	b := &Builder{
		source:             source,
		resolver:           resolver,
		calc:               calc,
		cache:              cache,
		locations:          locations,
		maxOffers:          DefaultMaxOffers,
		newID:              uuid.NewString,
		log:                zap.NewNop().Sugar(),
		cabinStrategies:    DefaultCabinStrategies,
		distanceStrategies: DefaultDistanceStrategies,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildDay queries offers for one date and flattens them into segment rows. A source
// failure or an empty result returns no rows and an error the caller should treat as a
// warning for that date only.
func (b *Builder) BuildDay(ctx context.Context, origin, destination string, date time.Time) ([]Row, error) {
	day := common.DateKey(date)

	offers, err := b.source.SearchOffers(ctx, Query{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Adults:      1,
		Max:         b.maxOffers,
	})
	if err != nil {
		return nil, fmt.Errorf("flight search for %s: %w", day, err)
	}
	if len(offers) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoOffers, day)
	}

	var rows []Row
	for i := range offers {
		offer := &offers[i]
		tripID := b.newID()
		for _, itin := range offer.Itineraries {
			stops := strconv.Itoa(len(itin.Segments) - 1)
			for _, seg := range itin.Segments {
				rows = append(rows, b.segmentRow(ctx, offer, seg, tripID, stops, origin, destination, day))
			}
		}
	}
	b.log.Infow("built flight rows", "date", day, "offers", len(offers), "rows", len(rows))
	return rows, nil
}

func (b *Builder) segmentRow(ctx context.Context, offer *Offer, seg Segment, tripID, stops, origin, destination, day string) Row {
	dep := seg.Departure.IATA
	arr := seg.Arrival.IATA
	from, _ := b.resolver.Airport(ctx, dep)
	to, _ := b.resolver.Airport(ctx, arr)

	sc := segmentContext{
		offer:    offer,
		segment:  seg,
		cabinKey: CabinKey(seg.CarrierCode, day),
		route:    geo.RouteKey(dep, arr),
		from:     from,
		to:       to,
		cache:    b.cache,
		calc:     b.calc,
	}

	distance := resolveDistance(b.distanceStrategies, sc)

	cabin := resolveCabin(b.cabinStrategies, sc)
	b.cache.RememberCabin(sc.cabinKey, cabin)

	fareBasis := ""
	if fd, ok := offer.FareDetailFor(seg.ID); ok {
		fareBasis = fd.FareBasis
		if cabin.BookingClass == "" {
			cabin.BookingClass = common.FirstNonEmpty(fd.Class, seg.Class)
		}
	}
	if cabin.BookingClass == "" {
		cabin.BookingClass = seg.Class
	}

	operating := common.FirstNonEmpty(seg.OperatingCarrier, seg.CarrierCode)

	b.track(dep, from, origin, destination)
	b.track(arr, to, origin, destination)

	return Row{
		TripID:               tripID,
		FlightType:           FlightTypeOneWay,
		FlightNo:             seg.CarrierCode + seg.Number,
		Carrier:              seg.CarrierCode,
		OperatingAirline:     operating,
		OperatingAirlineName: b.resolver.AirlineName(ctx, operating),
		Origin:               dep,
		Destination:          arr,
		OriginCityName:       common.FirstNonEmpty(from.City, b.resolver.CityName(ctx, dep)),
		DestinationCityName:  common.FirstNonEmpty(to.City, b.resolver.CityName(ctx, arr)),
		AirportNameOrigin:    common.FirstNonEmpty(from.Name, dep),
		AirportNameDest:      common.FirstNonEmpty(to.Name, arr),
		Departure:            seg.Departure.At,
		Arrival:              seg.Arrival.At,
		Duration:             seg.Duration,
		Stops:                stops,
		AircraftCode:         seg.Aircraft,
		AircraftName:         b.resolver.AircraftName(seg.Aircraft),
		Cabin:                cabin.Cabin,
		BookingClass:         cabin.BookingClass,
		FareConditions:       cabin.FareConditions,
		CheckedBags:          bookableSeats(offer.NumberOfBookableSeats),
		BasePrice:            offer.Price.Base,
		TotalPrice:           offer.Price.GrandTotal,
		DistanceKm:           distance,
		LastTicketingDate:    offer.LastTicketingDate,
		SegmentCabinType:     cabin.Cabin,
		Source:               SourceTag,
		FareBasis:            fareBasis,
		DepartureDate:        day,
	}
}

func (b *Builder) track(iata string, a reference.Airport, origin, destination string) {
	b.locations.Add(TrackedLocation{
		IATA: iata,
		Role: RoleFor(iata, origin, destination),
		Lat:  a.Lat,
		Lon:  a.Lon,
	})
}

func bookableSeats(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
