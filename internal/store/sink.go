// Package store persists assembled tables.
package store

import (
	"bytes"
	"context"

	"github.com/i474232898/flight-weather-insights/internal/table"
)

// Sink persists one table under its file name. Saving a table with the same name again
// replaces the previous content.
type Sink interface {
	Save(ctx context.Context, t *table.Table) error
}

// FileName returns the name a table is stored under, e.g. "flights.csv".
func FileName(t *table.Table) string {
	return t.Name() + ".csv"
}

func encodeCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
