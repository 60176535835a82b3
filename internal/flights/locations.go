package flights

// LocationRole tags a location by its part in the searched route.
type LocationRole string

const (
	RoleOrigin      LocationRole = "Origin"
	RoleDestination LocationRole = "Destination"
	RoleStopover    LocationRole = "Stopover"
)

// RoleFor classifies iata relative to the searched origin and destination.
func RoleFor(iata, origin, destination string) LocationRole {
	switch iata {
	case origin:
		return RoleOrigin
	case destination:
		return RoleDestination
	default:
		return RoleStopover
	}
}

// TrackedLocation is a unique location seen during a run.
type TrackedLocation struct {
	IATA string
	Role LocationRole
	Lat  *float64
	Lon  *float64
}

// HasCoordinates reports whether both coordinates are known.
func (l TrackedLocation) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// LocationSet is the run-wide, insertion-ordered set of locations keyed by IATA code.
type LocationSet struct {
	order  []string
	byCode map[string]TrackedLocation
}

// NewLocationSet returns an empty set.
func NewLocationSet() *LocationSet {
	return &LocationSet{byCode: make(map[string]TrackedLocation)}
}

// Add inserts loc unless its IATA code is already present. An existing entry without
// coordinates adopts the coordinates of loc.
func (s *LocationSet) Add(loc TrackedLocation) {
	if loc.IATA == "" {
		return
	}
	existing, ok := s.byCode[loc.IATA]
	if !ok {
		s.order = append(s.order, loc.IATA)
		s.byCode[loc.IATA] = loc
		return
	}
	if !existing.HasCoordinates() && loc.HasCoordinates() {
		existing.Lat, existing.Lon = loc.Lat, loc.Lon
		s.byCode[loc.IATA] = existing
	}
}

// All returns the locations in first-seen order.
func (s *LocationSet) All() []TrackedLocation {
	out := make([]TrackedLocation, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.byCode[code])
	}
	return out
}

// Len returns the number of unique locations.
func (s *LocationSet) Len() int {
	return len(s.order)
}
