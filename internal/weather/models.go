package weather

import (
	"time"
)

// Sample is one 3-hour forecast entry. Nil numeric fields were absent from the feed.
type Sample struct {
	Time  time.Time
	Epoch int64

	Temperature   *float64
	Pressure      *float64
	Humidity      *float64
	WindSpeed     *float64
	WindGust      *float64
	WindDirection *float64
	Cloudiness    *float64
	Visibility    *float64

	// Snow holds the raw snow object, e.g. {"3h": 0.4}. Empty means no snow reported.
	Snow map[string]float64

	// Description is the first weather description; HasWeather is false when the feed
	// carried no weather entries for this sample.
	Description string
	HasWeather  bool
}

// CityMeta is the feed-level metadata returned once per location.
type CityMeta struct {
	TimezoneOffset int // seconds east of UTC
	Sunrise        int64
	Sunset         int64
}

// Feed is everything a forecast source returns for one coordinate pair.
type Feed struct {
	Samples []Sample
	City    CityMeta
}

// Location is a place the run needs weather for.
type Location struct {
	IATA string
	Type string
	Lat  float64
	Lon  float64
}

// Key returns a canonical string key for grouping rows of this location.
func (l Location) Key() string {
	return l.IATA
}

// DayRecord is the aggregated forecast for one location and one date. All values are text;
// an empty string means no sample carried the field.
type DayRecord struct {
	FetchTimestamp string
	Visibility     string
	WindSpeed      string
	WindGust       string
	WindDirection  string
	Rain           string
	Snow           string
	Description    string
	Temperature    string
	Pressure       string
	Humidity       string
	Cloudiness     string
	Sunrise        string
	Sunset         string
	EventTime      string
	DepartureDate  string
}

// Row is a DayRecord bound to a location with its own identity.
type Row struct {
	LocationID   string
	IATA         string
	LocationType string
	Latitude     string
	Longitude    string
	DayRecord
}

// Fields returns the row keyed by output column name.
func (r Row) Fields() map[string]string {
	return map[string]string{
		"LOCATION_ID":         r.LocationID,
		"IATA_CODE":           r.IATA,
		"LOCATION_TYPE":       r.LocationType,
		"LATITUDE":            r.Latitude,
		"LONGITUDE":           r.Longitude,
		"FETCH_TIMESTAMP":     r.FetchTimestamp,
		"VISIBILITY":          r.Visibility,
		"WIND_SPEED":          r.WindSpeed,
		"WIND_GUST":           r.WindGust,
		"WIND_DIRECTION":      r.WindDirection,
		"RAIN":                r.Rain,
		"SNOW":                r.Snow,
		"WEATHER_DESCRIPTION": r.Description,
		"TEMPERATURE":         r.Temperature,
		"PRESSURE":            r.Pressure,
		"HUMIDITY":            r.Humidity,
		"CLOUDINESS":          r.Cloudiness,
		"SUNRISE":             r.Sunrise,
		"SUNSET":              r.Sunset,
		"EVENT_TIME":          r.EventTime,
		"DEPARTURE_DATE":      r.DepartureDate,
	}
}
