package weather

import (
	"encoding/json"
	"time"

	"github.com/i474232898/flight-weather-insights/internal/common"
)

const (
	dateLayout      = "2006-01-02"
	eventTimeLayout = "2006-01-02T15:04:05"
	fetchLayout     = "2006-01-02T15:04:05.000000"
	sunLayout       = "2006-01-02T15:04:05-07:00"
)

// EventTime renders the midnight-anchored event time for a date.
func EventTime(day time.Time) string {
	return startOfDay(day).Format(eventTimeLayout)
}

// AggregateDays consolidates a feed into one record per date for `days` dates starting at
// start. Dates without samples produce no record. Numeric fields are averaged over the
// samples that carry them; the description is the most frequent one, first seen on ties.
func AggregateDays(feed Feed, start time.Time, days int, fetchedAt time.Time) []DayRecord {
	buckets := make(map[string][]Sample)
	for _, s := range feed.Samples {
		k := s.Time.UTC().Format(dateLayout)
		buckets[k] = append(buckets[k], s)
	}

	sunrise := sunTime(feed.City.Sunrise, feed.City.TimezoneOffset)
	sunset := sunTime(feed.City.Sunset, feed.City.TimezoneOffset)
	fetched := fetchedAt.UTC().Format(fetchLayout)

	base := startOfDay(start)
	records := make([]DayRecord, 0, days)
	for i := 0; i < days; i++ {
		day := base.AddDate(0, 0, i)
		samples := buckets[day.Format(dateLayout)]
		if len(samples) == 0 {
			continue
		}

		records = append(records, DayRecord{
			FetchTimestamp: fetched,
			Visibility:     mean(samples, func(s Sample) *float64 { return s.Visibility }),
			WindSpeed:      mean(samples, func(s Sample) *float64 { return s.WindSpeed }),
			WindGust:       mean(samples, func(s Sample) *float64 { return s.WindGust }),
			WindDirection:  mean(samples, func(s Sample) *float64 { return s.WindDirection }),
			Rain:           "",
			Snow:           snowJSON(samples),
			Description:    modalDescription(samples),
			Temperature:    mean(samples, func(s Sample) *float64 { return s.Temperature }),
			Pressure:       mean(samples, func(s Sample) *float64 { return s.Pressure }),
			Humidity:       mean(samples, func(s Sample) *float64 { return s.Humidity }),
			Cloudiness:     mean(samples, func(s Sample) *float64 { return s.Cloudiness }),
			Sunrise:        sunrise,
			Sunset:         sunset,
			EventTime:      day.Format(eventTimeLayout),
			DepartureDate:  day.Format(dateLayout),
		})
	}
	return records
}

func mean(samples []Sample, field func(Sample) *float64) string {
	var sum float64
	var n int
	for _, s := range samples {
		if v := field(s); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return ""
	}
	return common.FormatFloat(sum / float64(n))
}

func modalDescription(samples []Sample) string {
	counts := make(map[string]int)
	var order []string
	for _, s := range samples {
		if !s.HasWeather || s.Description == "" {
			continue
		}
		if counts[s.Description] == 0 {
			order = append(order, s.Description)
		}
		counts[s.Description]++
	}

	best, bestCount := "", 0
	for _, d := range order {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func snowJSON(samples []Sample) string {
	reported := false
	for _, s := range samples {
		if len(s.Snow) > 0 {
			reported = true
			break
		}
	}
	if !reported {
		return ""
	}

	volumes := make(map[int64]interface{}, len(samples))
	for _, s := range samples {
		if v, ok := s.Snow["3h"]; ok {
			volumes[s.Epoch] = v
		} else {
			volumes[s.Epoch] = ""
		}
	}
	raw, err := json.Marshal(volumes)
	if err != nil {
		return ""
	}
	return string(raw)
}

func sunTime(epoch int64, offsetSeconds int) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).UTC().Add(time.Duration(offsetSeconds) * time.Second).Format(sunLayout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
