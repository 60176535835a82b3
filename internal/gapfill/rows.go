package gapfill

import (
	"time"

	"github.com/i474232898/flight-weather-insights/internal/flights"
	"github.com/i474232898/flight-weather-insights/internal/weather"
)

// FlightOptions fills the flights table as one group. Filled rows get a new trip id per row.
func FlightOptions(newID func() string) Options[flights.Row] {
	return Options[flights.Row]{
		Date: func(r flights.Row) string { return r.DepartureDate },
		Refill: func(r flights.Row, date string) flights.Row {
			r.TripID = newID()
			r.DepartureDate = date
			return r
		},
	}
}

// WeatherOptions fills the weather table per IATA code. Filled rows get a new location id
// and an event time anchored at the new date.
func WeatherOptions(newID func() string) Options[weather.Row] {
	return Options[weather.Row]{
		Group: func(r weather.Row) string { return r.IATA },
		Date:  func(r weather.Row) string { return r.DepartureDate },
		Refill: func(r weather.Row, date string) weather.Row {
			r.LocationID = newID()
			r.DepartureDate = date
			if day, err := time.Parse(time.DateOnly, date); err == nil {
				r.EventTime = weather.EventTime(day)
			}
			return r
		},
	}
}
