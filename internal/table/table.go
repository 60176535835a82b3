package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/i474232898/flight-weather-insights/internal/common"
)

// Table is an assembled, schema-ordered table. Every cell is text.
type Table struct {
	name    string
	columns []string
	df      dataframe.DataFrame
	rows    int
}

// Assemble projects records onto columns. Record keys are normalized before matching, a
// column missing from a record is written as "" and keys outside columns are dropped.
func Assemble(name string, columns []string, records []map[string]string) (*Table, error) {
	t := &Table{name: name, columns: append([]string(nil), columns...)}
	if len(records) == 0 {
		return t, nil
	}

	maps := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		m := make(map[string]interface{}, len(t.columns))
		for _, c := range t.columns {
			m[c] = ""
		}
		for k, v := range rec {
			m[common.NormalizeHeader(k)] = v
		}
		maps = append(maps, m)
	}

	df := dataframe.LoadMaps(maps,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load %s table: %w", name, df.Err)
	}
	df = df.Select(t.columns)
	if df.Err != nil {
		return nil, fmt.Errorf("project %s table: %w", name, df.Err)
	}
	t.df = df
	t.rows = df.Nrow()
	return t, nil
}

// Name returns the table name, e.g. "flights".
func (t *Table) Name() string { return t.name }

// Columns returns the column order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool { return t.rows == 0 }

// Rows returns the data rows in column order.
func (t *Table) Rows() [][]string {
	if t.rows == 0 {
		return nil
	}
	return t.df.Records()[1:]
}

// Column returns the values of one column, or nil when the table has no such column.
func (t *Table) Column(name string) []string {
	if t.rows == 0 {
		return nil
	}
	col := t.df.Col(name)
	if col.Err != nil {
		return nil
	}
	return col.Records()
}

// WriteCSV writes a header line followed by every row.
func (t *Table) WriteCSV(w io.Writer) error {
	if t.rows == 0 {
		cw := csv.NewWriter(w)
		if err := cw.Write(t.columns); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	return t.df.WriteCSV(w)
}
