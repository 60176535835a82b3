package table

import (
	"github.com/i474232898/flight-weather-insights/internal/flights"
	"github.com/i474232898/flight-weather-insights/internal/weather"
)

// Flights assembles the flights table.
func Flights(rows []flights.Row) (*Table, error) {
	records := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Fields())
	}
	return Assemble(FlightsName, FlightColumns, records)
}

// Weather assembles the weather table.
func Weather(rows []weather.Row) (*Table, error) {
	records := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Fields())
	}
	return Assemble(WeatherName, WeatherColumns, records)
}

// FromRows rebuilds a table from rows already in columns order.
func FromRows(name string, columns []string, rows [][]string) (*Table, error) {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(columns))
		for i, c := range columns {
			if i < len(row) {
				rec[c] = row[i]
			} else {
				rec[c] = ""
			}
		}
		records = append(records, rec)
	}
	return Assemble(name, columns, records)
}
