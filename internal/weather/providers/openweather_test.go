package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/flight-weather-insights/internal/common"
)

const forecastBody = `{
  "list": [
    {"dt": 1749783600, "main": {"temp": 21.4, "pressure": 1012, "humidity": 60},
     "weather": [{"main": "Clear", "description": "clear sky"}],
     "clouds": {"all": 0}, "wind": {"speed": 3.2, "deg": 250, "gust": 4.1}, "visibility": 10000},
    {"dt": 1749794400, "main": {"temp": -1.0, "pressure": 1008, "humidity": 90},
     "weather": [], "clouds": {"all": 100}, "wind": {"speed": 1.0, "deg": 10},
     "snow": {"3h": 0.35}}
  ],
  "city": {"timezone": 7200, "sunrise": 1749786000, "sunset": 1749843600}
}`

func TestOpenWeatherForecastParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "49.0097", q.Get("lat"))
		assert.Equal(t, "2.5479", q.Get("lon"))
		assert.Equal(t, "secret", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "secret", srv.URL)
	feed, err := p.Forecast(context.Background(), 49.0097, 2.5479)
	require.NoError(t, err)

	require.Len(t, feed.Samples, 2)
	assert.Equal(t, 7200, feed.City.TimezoneOffset)
	assert.Equal(t, int64(1749786000), feed.City.Sunrise)

	first := feed.Samples[0]
	assert.Equal(t, int64(1749783600), first.Epoch)
	assert.Equal(t, 21.4, *first.Temperature)
	assert.Equal(t, 4.1, *first.WindGust)
	assert.Equal(t, 10000.0, *first.Visibility)
	assert.True(t, first.HasWeather)
	assert.Equal(t, "clear sky", first.Description)
	assert.Empty(t, first.Snow)

	second := feed.Samples[1]
	assert.Nil(t, second.WindGust)
	assert.Nil(t, second.Visibility)
	assert.False(t, second.HasWeather)
	assert.Equal(t, 0.35, second.Snow["3h"])
}

func TestOpenWeatherForecastWrapsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "bad", srv.URL)
	_, err := p.Forecast(context.Background(), 1, 2)

	var ext *common.ExternalServiceError
	require.True(t, errors.As(err, &ext))
	assert.Equal(t, "openweathermap", ext.Service)
}

func TestOpenWeatherForecastRequiresKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "", "")
	_, err := p.Forecast(context.Background(), 1, 2)
	assert.Error(t, err)
}
