package flights

import (
	"github.com/i474232898/flight-weather-insights/internal/geo"
)

// CabinInfo is the cabin metadata reused for later segments of the same carrier and date.
type CabinInfo struct {
	Cabin          string
	BookingClass   string
	FareConditions string
}

// RunCache holds the fallback state of one search run. It is not safe for concurrent use.
type RunCache struct {
	Distances *geo.RouteDistances
	cabins    map[string]CabinInfo
}

// NewRunCache returns empty run caches.
func NewRunCache() *RunCache {
	return &RunCache{
		Distances: geo.NewRouteDistances(),
		cabins:    make(map[string]CabinInfo),
	}
}

// CabinKey identifies a (carrier, date) pair, e.g. "AF-2025-06-13".
func CabinKey(carrier, date string) string {
	return carrier + "-" + date
}

// RememberCabin stores info when it carries a cabin.
func (c *RunCache) RememberCabin(key string, info CabinInfo) {
	if info.Cabin == "" {
		return
	}
	c.cabins[key] = info
}

// LastCabin returns the most recent cabin info for key.
func (c *RunCache) LastCabin(key string) (CabinInfo, bool) {
	info, ok := c.cabins[key]
	return info, ok
}
