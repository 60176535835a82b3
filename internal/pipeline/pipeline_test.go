package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/flight-weather-insights/internal/flights"
	"github.com/i474232898/flight-weather-insights/internal/geo"
	"github.com/i474232898/flight-weather-insights/internal/reference"
	"github.com/i474232898/flight-weather-insights/internal/store"
	"github.com/i474232898/flight-weather-insights/internal/table"
	"github.com/i474232898/flight-weather-insights/internal/weather"
)

var day1 = time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

func ptr(f float64) *float64 { return &f }

type fakeSource struct {
	byDate map[string][]flights.Offer
}

func (f *fakeSource) SearchOffers(ctx context.Context, q flights.Query) ([]flights.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.byDate[q.Date.Format("2006-01-02")], nil
}

type fakeDirectory struct {
	airports map[string]*reference.Airport
}

func (d *fakeDirectory) AirportByCode(_ context.Context, iata string) (*reference.Airport, error) {
	return d.airports[iata], nil
}

func (d *fakeDirectory) AirlineName(_ context.Context, carrier string) (string, error) {
	return map[string]string{"AF": "AIR FRANCE", "EK": "EMIRATES"}[carrier], nil
}

type fakeGeocoder struct {
	points map[string]geo.Point
}

func (g *fakeGeocoder) Geocode(_ context.Context, city, _ string) (geo.Point, error) {
	p, ok := g.points[city]
	if !ok {
		return geo.Point{}, errors.New("not found")
	}
	return p, nil
}

// fakeForecasts serves feeds keyed by latitude rounded to one decimal.
type fakeForecasts struct {
	days  map[float64]int
	calls []float64
}

func (f *fakeForecasts) Name() string { return "fake" }

func (f *fakeForecasts) Forecast(_ context.Context, lat, _ float64) (weather.Feed, error) {
	key := math.Round(lat*10) / 10
	f.calls = append(f.calls, key)
	n, ok := f.days[key]
	if !ok {
		return weather.Feed{}, errors.New("forecast unavailable")
	}
	var feed weather.Feed
	for d := 0; d < n; d++ {
		for _, h := range []int{0, 12} {
			ts := day1.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour)
			feed.Samples = append(feed.Samples, weather.Sample{
				Time:        ts,
				Epoch:       ts.Unix(),
				Temperature: ptr(float64(20 + d)),
				Description: "clear sky",
				HasWeather:  true,
			})
		}
	}
	feed.City = weather.CityMeta{Sunrise: day1.Add(5 * time.Hour).Unix(), Sunset: day1.Add(19 * time.Hour).Unix()}
	return feed, nil
}

func segment(id, carrier, number, from, to string) flights.Segment {
	return flights.Segment{
		ID:          id,
		CarrierCode: carrier,
		Number:      number,
		Departure:   flights.Endpoint{IATA: from, At: "2025-06-13T02:00:00"},
		Arrival:     flights.Endpoint{IATA: to, At: "2025-06-13T09:00:00"},
		Duration:    "PT7H",
		Aircraft:    "77W",
	}
}

func testDeps() (*fakeSource, *fakeDirectory, *fakeForecasts, *fakeGeocoder) {
	src := &fakeSource{byDate: map[string][]flights.Offer{
		"2025-06-13": {{
			LastTicketingDate: "2025-06-12",
			Price:             flights.Price{Base: "400.00", GrandTotal: "480.00"},
			Itineraries:       []flights.Itinerary{{Segments: []flights.Segment{segment("1", "AF", "191", "HYD", "CDG")}}},
			TravelerPricings: []flights.TravelerPricing{{FareDetails: []flights.FareDetail{
				{SegmentID: "1", Cabin: "ECONOMY", FareBasis: "LLOWIN", Class: "L"},
			}}},
		}},
		"2025-06-16": {{
			Price: flights.Price{Base: "300.00", GrandTotal: "350.00"},
			Itineraries: []flights.Itinerary{{Segments: []flights.Segment{
				segment("1", "EK", "527", "HYD", "DXB"),
				segment("2", "EK", "73", "DXB", "CDG"),
			}}},
		}},
	}}
	dir := &fakeDirectory{airports: map[string]*reference.Airport{
		"HYD": {IATA: "HYD", Name: "RAJIV GANDHI INTL", City: "HYDERABAD", Lat: ptr(17.2403), Lon: ptr(78.4294)},
		"CDG": {IATA: "CDG", Name: "CHARLES DE GAULLE", City: "PARIS", Lat: ptr(49.0097), Lon: ptr(2.5479)},
		"DXB": {IATA: "DXB", Name: "DUBAI INTL", City: "DUBAI", Country: "UNITED ARAB EMIRATES"},
	}}
	forecasts := &fakeForecasts{days: map[float64]int{17.2: 4, 25.3: 5}}
	geocoder := &fakeGeocoder{points: map[string]geo.Point{"DUBAI": geo.NewPoint(25.2528, 55.3644)}}
	return src, dir, forecasts, geocoder
}

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func column(t *testing.T, tbl *table.Table, name string) int {
	t.Helper()
	for i, c := range tbl.Columns() {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %s not found", name)
	return -1
}

func TestRunFillsFiveDayWindow(t *testing.T) {
	src, dir, forecasts, geocoder := testDeps()
	sink := store.NewMemoryStore(0, 0)
	p := New(src, dir, forecasts,
		WithGeocoder(geocoder),
		WithSink(sink),
		WithIDGenerator(sequence()),
		WithClock(func() time.Time { return day1.Add(-24 * time.Hour) }))

	res, err := p.Run(context.Background(), Request{Origin: "hyd", Destination: "CDG", DepartureDate: day1.Add(10 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, "HYD", res.Origin)
	assert.Equal(t, []string{"2025-06-13", "2025-06-14", "2025-06-15", "2025-06-16", "2025-06-17"}, res.Dates)
	assert.NotEmpty(t, res.RouteDistanceKm)

	ft := res.Flights
	assert.Equal(t, table.FlightColumns, ft.Columns())
	require.Equal(t, 7, ft.Len())

	dateCol := column(t, ft, "DEPARTURE_DATE")
	tripCol := column(t, ft, "TRIP_ID")
	byDate := map[string][][]string{}
	for _, row := range ft.Rows() {
		byDate[row[dateCol]] = append(byDate[row[dateCol]], row)
	}
	require.Len(t, byDate, 5)

	sameExceptIdentity := func(a, b []string) {
		t.Helper()
		for i := range a {
			if i == dateCol || i == tripCol {
				continue
			}
			assert.Equal(t, a[i], b[i], "column %s", ft.Columns()[i])
		}
		assert.NotEqual(t, a[tripCol], b[tripCol])
	}
	for _, d := range []string{"2025-06-14", "2025-06-15"} {
		require.Len(t, byDate[d], 1)
		sameExceptIdentity(byDate["2025-06-13"][0], byDate[d][0])
	}
	require.Len(t, byDate["2025-06-16"], 2)
	require.Len(t, byDate["2025-06-17"], 2)
	for i := range byDate["2025-06-17"] {
		sameExceptIdentity(byDate["2025-06-16"][i], byDate["2025-06-17"][i])
	}

	day1Row := byDate["2025-06-13"][0]
	assert.Equal(t, "ECONOMY", day1Row[column(t, ft, "CABIN")])
	assert.Equal(t, "AIR FRANCE", day1Row[column(t, ft, "OPERATING_AIRLINE_NAME")])
	assert.Equal(t, "1", byDate["2025-06-16"][0][column(t, ft, "STOPS")])

	wt := res.Weather
	assert.Equal(t, table.WeatherColumns, wt.Columns())
	require.Equal(t, 10, wt.Len())
	iata := wt.Column("IATA_CODE")
	assert.Equal(t, "HYD", iata[0])
	assert.Equal(t, "DXB", iata[9])
	types := wt.Column("LOCATION_TYPE")
	assert.Equal(t, "Origin", types[0])
	assert.Equal(t, "Stopover", types[9])

	hydLast := wt.Rows()[4]
	assert.Equal(t, "2025-06-17", hydLast[column(t, wt, "DEPARTURE_DATE")])
	assert.Equal(t, "2025-06-17T00:00:00", hydLast[column(t, wt, "EVENT_TIME")])
	assert.Equal(t, "23", hydLast[column(t, wt, "TEMPERATURE")])

	assert.Contains(t, res.Warnings, "no flights found for 2025-06-14")
	assert.Contains(t, res.Warnings, "no weather forecast for CDG")

	// one forecast call per unique location
	assert.ElementsMatch(t, []float64{17.2, 49, 25.3}, forecasts.calls)

	latest, err := sink.GetLatest("flights.csv")
	require.NoError(t, err)
	assert.Equal(t, 7, latest.Rows)
	_, err = sink.GetLatest("weather.csv")
	assert.NoError(t, err)
}

func TestRunRejectsInvalidRequests(t *testing.T) {
	src, dir, forecasts, _ := testDeps()
	p := New(src, dir, forecasts)

	for _, req := range []Request{
		{Origin: "HYD", Destination: "hyd", DepartureDate: day1},
		{Origin: "HYDE", Destination: "CDG", DepartureDate: day1},
		{Origin: "HYD", Destination: "CDG"},
	} {
		_, err := p.Run(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func TestRunWithoutFlights(t *testing.T) {
	_, dir, forecasts, _ := testDeps()
	sink := store.NewMemoryStore(0, 0)
	p := New(&fakeSource{}, dir, forecasts, WithSink(sink), WithDays(3))

	res, err := p.Run(context.Background(), Request{Origin: "HYD", Destination: "CDG", DepartureDate: day1})
	require.NoError(t, err)
	assert.True(t, res.Flights.Empty())
	assert.Equal(t, 3, res.Weather.Len())
	assert.Contains(t, res.Warnings, "no data to save for flights.csv")
	assert.Contains(t, res.Warnings, "no flights found for 2025-06-13")

	_, err = sink.GetLatest("flights.csv")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

type failingSink struct{ err error }

func (f failingSink) Save(context.Context, *table.Table) error { return f.err }

func TestRunReturnsResultOnSinkFailure(t *testing.T) {
	src, dir, forecasts, _ := testDeps()
	boom := errors.New("disk full")
	p := New(src, dir, forecasts, WithSink(failingSink{err: boom}))

	res, err := p.Run(context.Background(), Request{Origin: "HYD", Destination: "CDG", DepartureDate: day1})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.Equal(t, 7, res.Flights.Len())
}

func TestRunStopsOnCancellation(t *testing.T) {
	src, dir, forecasts, _ := testDeps()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(src, dir, forecasts).Run(ctx, Request{Origin: "HYD", Destination: "CDG", DepartureDate: day1})
	assert.ErrorIs(t, err, context.Canceled)
}
