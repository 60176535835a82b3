// Package table projects row sets onto the fixed output schemas.
package table

const (
	FlightsName = "flights"
	WeatherName = "weather"
)

// FlightColumns is the flights table column order.
var FlightColumns = []string{
	"TRIP_ID",
	"FLIGHT_TYPE",
	"FLIGHT_NO",
	"CARRIER",
	"OPERATING_AIRLINE",
	"OPERATING_AIRLINE_NAME",
	"ORIGIN",
	"DESTINATION",
	"ORIGIN_CITY_NAME",
	"DESTINATION_CITY_NAME",
	"AIRPORT_NAME_ORIGIN",
	"AIRPORT_NAME_DESTINATION",
	"DEPARTURE",
	"ARRIVAL",
	"DURATION",
	"STOPS",
	"AIRCRAFT_CODE",
	"AIRCRAFT_NAME",
	"CABIN",
	"BOOKING_CLASS",
	"FARE_CONDITIONS",
	"CHECKED_BAGS",
	"BASE_PRICE",
	"TOTAL_PRICE",
	"FLIGHT_DISTANCE_KM",
	"LAST_TICKETING_DATE",
	"SEGMENT_CABIN_TYPE",
	"SOURCE",
	"FARE_BASIS",
	"DEPARTURE_DATE",
}

// WeatherColumns is the weather table column order.
var WeatherColumns = []string{
	"LOCATION_ID",
	"IATA_CODE",
	"LOCATION_TYPE",
	"LATITUDE",
	"LONGITUDE",
	"FETCH_TIMESTAMP",
	"VISIBILITY",
	"WIND_SPEED",
	"WIND_GUST",
	"WIND_DIRECTION",
	"RAIN",
	"SNOW",
	"WEATHER_DESCRIPTION",
	"TEMPERATURE",
	"PRESSURE",
	"HUMIDITY",
	"CLOUDINESS",
	"SUNRISE",
	"SUNSET",
	"EVENT_TIME",
	"DEPARTURE_DATE",
}
