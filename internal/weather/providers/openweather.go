package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/flight-weather-insights/internal/common"
	"github.com/i474232898/flight-weather-insights/internal/httpclient"
	"github.com/i474232898/flight-weather-insights/internal/weather"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/forecast"

// OpenWeatherProvider implements weather.ForecastSource for the OpenWeatherMap
// 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = defaultOpenWeatherURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  httpclient.New("openweather", client),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     *float64 `json:"temp"`
			Pressure *float64 `json:"pressure"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Clouds struct {
			All *float64 `json:"all"`
		} `json:"clouds"`
		Wind struct {
			Speed *float64 `json:"speed"`
			Deg   *float64 `json:"deg"`
			Gust  *float64 `json:"gust"`
		} `json:"wind"`
		Visibility *float64           `json:"visibility"`
		Snow       map[string]float64 `json:"snow"`
	} `json:"list"`
	City struct {
		Timezone int   `json:"timezone"`
		Sunrise  int64 `json:"sunrise"`
		Sunset   int64 `json:"sunset"`
	} `json:"city"`
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, lat, lon float64) (weather.Feed, error) {
	if p.apiKey == "" {
		return weather.Feed{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	var payload forecastPayload
	if err := p.client.GetJSON(ctx, p.baseURL+"?"+values.Encode(), nil, &payload); err != nil {
		return weather.Feed{}, common.External(p.name, "forecast", err)
	}

	feed := weather.Feed{
		Samples: make([]weather.Sample, 0, len(payload.List)),
		City: weather.CityMeta{
			TimezoneOffset: payload.City.Timezone,
			Sunrise:        payload.City.Sunrise,
			Sunset:         payload.City.Sunset,
		},
	}
	for _, item := range payload.List {
		s := weather.Sample{
			Time:          time.Unix(item.Dt, 0).UTC(),
			Epoch:         item.Dt,
			Temperature:   item.Main.Temp,
			Pressure:      item.Main.Pressure,
			Humidity:      item.Main.Humidity,
			WindSpeed:     item.Wind.Speed,
			WindGust:      item.Wind.Gust,
			WindDirection: item.Wind.Deg,
			Cloudiness:    item.Clouds.All,
			Visibility:    item.Visibility,
			Snow:          item.Snow,
		}
		if len(item.Weather) > 0 {
			s.HasWeather = true
			s.Description = item.Weather[0].Description
		}
		feed.Samples = append(feed.Samples, s)
	}
	return feed, nil
}
