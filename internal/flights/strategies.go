package flights

import (
	"github.com/i474232898/flight-weather-insights/internal/geo"
	"github.com/i474232898/flight-weather-insights/internal/reference"
)

// segmentContext is what a resolution strategy may look at for one segment.
type segmentContext struct {
	offer    *Offer
	segment  Segment
	cabinKey string
	route    string
	from     reference.Airport
	to       reference.Airport
	cache    *RunCache
	calc     *geo.Calculator
}

// CabinStrategy yields cabin metadata for a segment, or false when it has none.
type CabinStrategy func(sc segmentContext) (CabinInfo, bool)

// DistanceStrategy yields a distance in km for a segment, or false when it has none.
type DistanceStrategy func(sc segmentContext) (string, bool)

// DefaultCabinStrategies: fare detail for the segment, segment-level guess, last cabin
// seen for the same carrier and date.
var DefaultCabinStrategies = []CabinStrategy{cabinFromFareDetail, cabinFromSegment, cabinFromCache}

// DefaultDistanceStrategies: fresh computation, last distance for the route.
var DefaultDistanceStrategies = []DistanceStrategy{distanceFromCoordinates, distanceFromCache}

func resolveCabin(strategies []CabinStrategy, sc segmentContext) CabinInfo {
	for _, s := range strategies {
		if info, ok := s(sc); ok {
			return info
		}
	}
	return CabinInfo{}
}

func resolveDistance(strategies []DistanceStrategy, sc segmentContext) string {
	for _, s := range strategies {
		if km, ok := s(sc); ok {
			return km
		}
	}
	return ""
}

func cabinFromFareDetail(sc segmentContext) (CabinInfo, bool) {
	fd, ok := sc.offer.FareDetailFor(sc.segment.ID)
	if !ok {
		return CabinInfo{}, false
	}
	cabin := fd.Cabin
	if cabin == "" {
		cabin = sc.segment.Cabin
	}
	if cabin == "" {
		return CabinInfo{}, false
	}
	class := fd.Class
	if class == "" {
		class = sc.segment.Class
	}
	return CabinInfo{Cabin: cabin, BookingClass: class, FareConditions: cabin}, true
}

func cabinFromSegment(sc segmentContext) (CabinInfo, bool) {
	if sc.segment.Cabin == "" {
		return CabinInfo{}, false
	}
	return CabinInfo{Cabin: sc.segment.Cabin, BookingClass: sc.segment.Class}, true
}

func cabinFromCache(sc segmentContext) (CabinInfo, bool) {
	return sc.cache.LastCabin(sc.cabinKey)
}

func distanceFromCoordinates(sc segmentContext) (string, bool) {
	if !sc.from.HasCoordinates() || !sc.to.HasCoordinates() {
		return "", false
	}
	km := sc.calc.DistanceKm(sc.from.Point(), sc.to.Point())
	if km == "" {
		return "", false
	}
	sc.cache.Distances.Remember(sc.route, km)
	return km, true
}

func distanceFromCache(sc segmentContext) (string, bool) {
	return sc.cache.Distances.Last(sc.route)
}
