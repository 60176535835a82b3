// Package gapfill carries the most recent day of data forward into horizon dates that have
// no native rows.
package gapfill

import (
	"time"

	"github.com/i474232898/flight-weather-insights/internal/common"
)

// Options tells Forward how to read and rewrite rows of type T.
type Options[T any] struct {
	// Group returns the fill group of a row. Nil puts every row in a single group.
	Group func(T) string
	// Date returns the horizon date ("2006-01-02") a row belongs to.
	Date func(T) string
	// Refill returns a copy of a source row re-keyed to date: new identity, date fields
	// overwritten, everything else unchanged.
	Refill func(row T, date string) T
}

// Gap is a (group, date) pair that stayed empty because no earlier date had data.
type Gap struct {
	Group string
	Date  string
}

// Report summarizes a Forward call.
type Report struct {
	Filled  int
	Missing []Gap
}

// Forward walks dates in order for every group. Dates with native rows are kept and
// remembered; empty dates get a refilled copy of the last remembered rows. Leading dates
// before the first native rows of a group stay empty. Rows dated outside dates are dropped.
// Output is group-major in first-seen group order, then date order.
func Forward[T any](dates []string, rows []T, opts Options[T]) ([]T, Report) {
	var report Report
	if len(rows) == 0 {
		return nil, report
	}

	group := opts.Group
	if group == nil {
		group = func(T) string { return "" }
	}

	var groups []string
	byGroupDate := make(map[string]map[string][]T)
	for _, r := range rows {
		g := group(r)
		bucket, ok := byGroupDate[g]
		if !ok {
			bucket = make(map[string][]T)
			byGroupDate[g] = bucket
			groups = append(groups, g)
		}
		d := opts.Date(r)
		bucket[d] = append(bucket[d], r)
	}

	out := make([]T, 0, len(rows))
	for _, g := range groups {
		var last []T
		for _, d := range dates {
			native := byGroupDate[g][d]
			switch {
			case len(native) > 0:
				out = append(out, native...)
				last = native
			case last != nil:
				for _, r := range last {
					out = append(out, opts.Refill(r, d))
				}
				report.Filled += len(last)
			default:
				report.Missing = append(report.Missing, Gap{Group: g, Date: d})
			}
		}
	}
	return out, report
}

// Dates returns count consecutive "2006-01-02" keys starting at the day of start.
func Dates(start time.Time, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, common.DateKey(start.AddDate(0, 0, i)))
	}
	return out
}
