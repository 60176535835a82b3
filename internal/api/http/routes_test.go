package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/flight-weather-insights/internal/flights"
	"github.com/i474232898/flight-weather-insights/internal/pipeline"
	"github.com/i474232898/flight-weather-insights/internal/reference"
	"github.com/i474232898/flight-weather-insights/internal/store"
	"github.com/i474232898/flight-weather-insights/internal/table"
)

type fakeSearcher struct {
	err error
}

func (f fakeSearcher) Search(_ context.Context, q string) ([]reference.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []reference.Candidate{{Name: "PARIS", IATA: "PAR", City: "PARIS", Type: "CITY"}}, nil
}

type fakeRunner struct {
	got pipeline.Request
	err error
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Result, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	ft, _ := table.Flights([]flights.Row{{TripID: "t1", DepartureDate: "2025-06-13"}})
	wt, _ := table.Weather(nil)
	return &pipeline.Result{
		Origin:          req.Origin,
		Destination:     req.Destination,
		Dates:           []string{"2025-06-13"},
		RouteDistanceKm: "7548.07",
		Flights:         ft,
		Weather:         wt,
	}, nil
}

func newTestApp(runner *fakeRunner, exports *store.MemoryStore, searcher fakeSearcher) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, Deps{Locations: searcher, Searches: runner, Exports: exports})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestLocationsEndpoint(t *testing.T) {
	app := newTestApp(&fakeRunner{}, store.NewMemoryStore(0, 0), fakeSearcher{})

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/locations?q=par", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Locations []reference.Candidate `json:"locations"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Locations, 1)
	assert.Equal(t, "PAR", out.Locations[0].IATA)

	app = newTestApp(&fakeRunner{}, store.NewMemoryStore(0, 0), fakeSearcher{err: errors.New("down")})
	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/locations?q=par", nil))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func postSearch(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSearchValidation(t *testing.T) {
	runner := &fakeRunner{}
	app := newTestApp(runner, store.NewMemoryStore(0, 0), fakeSearcher{})

	for _, body := range []string{
		`{"origin":"HYD","destination":"hyd","departureDate":"2025-06-13"}`,
		`{"origin":"HYDE","destination":"CDG","departureDate":"2025-06-13"}`,
		`{"origin":"HYD","destination":"CDG","departureDate":"13/06/2025"}`,
		`{"origin":"HYD"}`,
		`not json`,
	} {
		resp, _ := do(t, app, postSearch(body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Empty(t, runner.got.Origin)
}

func TestSearchRunsPipeline(t *testing.T) {
	runner := &fakeRunner{}
	app := newTestApp(runner, store.NewMemoryStore(0, 0), fakeSearcher{})

	resp, body := do(t, app, postSearch(`{"origin":"hyd","destination":"CDG","departureDate":"2025-06-13"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "HYD", runner.got.Origin)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), runner.got.DepartureDate)

	var out searchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "flights.csv", out.Flights.File)
	assert.Equal(t, 1, out.Flights.Rows)
	assert.Nil(t, out.Flights.Data)
	assert.Equal(t, 0, out.Weather.Rows)
	assert.Equal(t, "7548.07", out.RouteDistanceKm)
	assert.NotNil(t, out.Warnings)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches?rows=true",
		strings.NewReader(`{"origin":"HYD","destination":"CDG","departureDate":"2025-06-13"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body = do(t, app, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	out = searchResponse{}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, table.FlightColumns, out.Flights.Columns)
	require.Len(t, out.Flights.Data, 1)
	assert.Equal(t, "t1", out.Flights.Data[0][0])
}

func TestSearchErrors(t *testing.T) {
	cases := map[error]int{
		pipeline.ErrInvalidRequest:   http.StatusBadRequest,
		context.DeadlineExceeded:     http.StatusGatewayTimeout,
		errors.New("assembly broke"): http.StatusInternalServerError,
	}
	for err, status := range cases {
		app := newTestApp(&fakeRunner{err: err}, store.NewMemoryStore(0, 0), fakeSearcher{})
		resp, _ := do(t, app, postSearch(`{"origin":"HYD","destination":"CDG","departureDate":"2025-06-13"}`))
		assert.Equal(t, status, resp.StatusCode, err.Error())
	}
}

func TestExportEndpoints(t *testing.T) {
	exports := store.NewMemoryStore(0, 0)
	app := newTestApp(&fakeRunner{}, exports, fakeSearcher{})

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports/flights.csv", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	before := time.Now().Add(-time.Minute).Unix()
	tbl, err := table.Flights([]flights.Row{{TripID: "t1", DepartureDate: "2025-06-13"}})
	require.NoError(t, err)
	require.NoError(t, exports.Save(context.Background(), tbl))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports/flights.csv", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "flights.csv")
	assert.True(t, strings.HasPrefix(body, "TRIP_ID,FLIGHT_TYPE,"))

	url := "/api/v1/exports/flights.csv/history?from=" + itoa(before) + "&to=" + time.Now().Add(time.Minute).UTC().Format(time.RFC3339)
	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var out struct {
		Exports []exportSummary `json:"exports"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Exports, 1)
	assert.Equal(t, 1, out.Exports[0].Rows)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports/flights.csv/history?from=100&to=50", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports/flights.csv/history?from=yesterday&to=50", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParseTime(t *testing.T) {
	ts, err := parseTime("1749772800")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), ts)

	ts, err = parseTime("2025-06-13T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	_, err = parseTime("June 13")
	assert.Error(t, err)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
