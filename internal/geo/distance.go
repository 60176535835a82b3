// Package geo computes great-circle distances between airports.
package geo

import (
	"math"

	"go.uber.org/zap"

	"github.com/i474232898/flight-weather-insights/internal/common"
)

const earthRadiusKm = 6371.0

// Point is a latitude/longitude pair in decimal degrees. Nil fields mean unknown.
type Point struct {
	Lat *float64
	Lon *float64
}

// NewPoint builds a Point from known coordinates.
func NewPoint(lat, lon float64) Point {
	return Point{Lat: &lat, Lon: &lon}
}

// Valid reports whether both coordinates are present and within range.
func (p Point) Valid() bool {
	if p.Lat == nil || p.Lon == nil {
		return false
	}
	lat, lon := *p.Lat, *p.Lon
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Calculator computes distances and logs the ones it cannot compute.
type Calculator struct {
	log *zap.SugaredLogger
}

// NewCalculator returns a Calculator logging through log.
func NewCalculator(log *zap.SugaredLogger) *Calculator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Calculator{log: log}
}

// DistanceKm returns the great-circle distance between a and b as a decimal string,
// or "" when either point is unusable.
func (c *Calculator) DistanceKm(a, b Point) string {
	if !a.Valid() || !b.Valid() {
		c.log.Warnw("distance calculation skipped: missing or invalid coordinates",
			"from", describe(a), "to", describe(b))
		return ""
	}
	km := haversineKm(*a.Lat, *a.Lon, *b.Lat, *b.Lon)
	if math.IsNaN(km) || math.IsInf(km, 0) {
		c.log.Warnw("distance calculation failed", "from", describe(a), "to", describe(b))
		return ""
	}
	return common.FormatFloat(km)
}

// haversineKm returns the distance in kilometers between two lat/lon points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0
	lat1r := lat1 * math.Pi / 180.0
	lat2r := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func describe(p Point) string {
	return common.FormatOptionalFloat(p.Lat) + "," + common.FormatOptionalFloat(p.Lon)
}
