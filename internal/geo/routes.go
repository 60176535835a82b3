package geo

// RouteKey identifies a directed route, e.g. "HYD-CDG".
func RouteKey(origin, destination string) string {
	return origin + "-" + destination
}

// RouteDistances remembers the last distance computed for each route during one run.
// It is not safe for concurrent use.
type RouteDistances struct {
	last map[string]string
}

// NewRouteDistances returns an empty cache.
func NewRouteDistances() *RouteDistances {
	return &RouteDistances{last: make(map[string]string)}
}

// Remember stores km for the route. Empty values are ignored.
func (r *RouteDistances) Remember(route, km string) {
	if km == "" {
		return
	}
	r.last[route] = km
}

// Last returns the last distance stored for the route.
func (r *RouteDistances) Last(route string) (string, bool) {
	km, ok := r.last[route]
	return km, ok
}
