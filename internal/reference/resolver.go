package reference

import (
	"context"

	"go.uber.org/zap"
)

// AirportCache holds airport lookups for one run. A nil entry records a lookup that found
// nothing, so repeated misses do not hit the directory again.
type AirportCache struct {
	entries map[string]*Airport
}

// NewAirportCache returns an empty cache.
func NewAirportCache() *AirportCache {
	return &AirportCache{entries: make(map[string]*Airport)}
}

// Get returns the cached entry and whether the code was looked up before.
func (c *AirportCache) Get(iata string) (*Airport, bool) {
	a, ok := c.entries[iata]
	return a, ok
}

// Put stores a lookup result; a nil airport is a negative entry.
func (c *AirportCache) Put(iata string, a *Airport) {
	c.entries[iata] = a
}

// Len returns the number of cached codes, negative entries included.
func (c *AirportCache) Len() int {
	return len(c.entries)
}

// Resolver answers reference lookups for a single run. It is not safe for concurrent use.
type Resolver struct {
	airports AirportDirectory
	airlines AirlineDirectory
	cache    *AirportCache
	names    map[string]string
	log      *zap.SugaredLogger
}

// NewResolver creates a Resolver backed by the given directories and run cache.
func NewResolver(airports AirportDirectory, airlines AirlineDirectory, cache *AirportCache, log *zap.SugaredLogger) *Resolver {
	if cache == nil {
		cache = NewAirportCache()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{
		airports: airports,
		airlines: airlines,
		cache:    cache,
		names:    make(map[string]string),
		log:      log,
	}
}

// Airport returns the directory record for iata, consulting the run cache first.
func (r *Resolver) Airport(ctx context.Context, iata string) (Airport, bool) {
	if iata == "" {
		return Airport{}, false
	}
	if a, seen := r.cache.Get(iata); seen {
		if a == nil {
			return Airport{}, false
		}
		return *a, true
	}

	a, err := r.airports.AirportByCode(ctx, iata)
	if err != nil {
		r.log.Errorw("airport lookup failed", "iata", iata, "error", err)
		a = nil
	}
	r.cache.Put(iata, a)
	if a == nil {
		return Airport{}, false
	}
	return *a, true
}

// CityName returns the city of the airport, or the code itself when unknown.
func (r *Resolver) CityName(ctx context.Context, iata string) string {
	if a, ok := r.Airport(ctx, iata); ok && a.City != "" {
		return a.City
	}
	return iata
}

// AirlineName returns the carrier's business name, or the code when the directory has none.
func (r *Resolver) AirlineName(ctx context.Context, carrier string) string {
	if name, ok := r.names[carrier]; ok {
		return name
	}
	name, err := r.airlines.AirlineName(ctx, carrier)
	if err != nil {
		r.log.Errorw("airline lookup failed", "carrier", carrier, "error", err)
		return carrier
	}
	if name == "" {
		name = carrier
	}
	r.names[carrier] = name
	return name
}

// AircraftName maps an aircraft code to a display name.
func (r *Resolver) AircraftName(code string) string {
	return AircraftName(code)
}
