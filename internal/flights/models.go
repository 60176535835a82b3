// Package flights turns flight offers into flat per-segment rows.
package flights

import (
	"context"
	"time"
)

// Query describes one Flight Source request.
type Query struct {
	Origin      string
	Destination string
	Date        time.Time
	Adults      int
	Max         int
}

// Source provides priced itinerary offers.
type Source interface {
	SearchOffers(ctx context.Context, q Query) ([]Offer, error)
}

// Offer is one priced offer. Optional values are empty strings or nil pointers.
type Offer struct {
	ID                    string
	LastTicketingDate     string
	NumberOfBookableSeats *int
	Price                 Price
	Itineraries           []Itinerary
	TravelerPricings      []TravelerPricing
}

// Price holds the offer price as returned by the source (decimal strings).
type Price struct {
	Currency   string
	Base       string
	GrandTotal string
}

// Itinerary is an ordered list of segments flown one after another.
type Itinerary struct {
	Duration string
	Segments []Segment
}

// Endpoint is a segment departure or arrival.
type Endpoint struct {
	IATA     string
	Terminal string
	At       string
}

// Segment is one flight leg.
type Segment struct {
	ID          string
	CarrierCode string
	Number      string
	Departure   Endpoint
	Arrival     Endpoint
	Duration    string
	Aircraft    string

	// OperatingCarrier is empty when the marketing carrier operates the flight.
	OperatingCarrier string

	// Cabin and Class are the segment-level guesses, used when no fare detail matches.
	Cabin string
	Class string
}

// TravelerPricing carries per-traveler fare details.
type TravelerPricing struct {
	TravelerID  string
	FareDetails []FareDetail
}

// FareDetail is the fare information for one segment of one traveler.
type FareDetail struct {
	SegmentID string
	Cabin     string
	FareBasis string
	Class     string
}

// FareDetailFor returns the first fare detail matching segmentID across all travelers.
func (o Offer) FareDetailFor(segmentID string) (FareDetail, bool) {
	for _, tp := range o.TravelerPricings {
		for _, fd := range tp.FareDetails {
			if fd.SegmentID == segmentID {
				return fd, true
			}
		}
	}
	return FareDetail{}, false
}

const (
	FlightTypeOneWay = "One-way"
	SourceTag        = "Amadeus API"
)

// Row is one output row per segment. Every value is text; empty means unresolved.
type Row struct {
	TripID               string
	FlightType           string
	FlightNo             string
	Carrier              string
	OperatingAirline     string
	OperatingAirlineName string
	Origin               string
	Destination          string
	OriginCityName       string
	DestinationCityName  string
	AirportNameOrigin    string
	AirportNameDest      string
	Departure            string
	Arrival              string
	Duration             string
	Stops                string
	AircraftCode         string
	AircraftName         string
	Cabin                string
	BookingClass         string
	FareConditions       string
	CheckedBags          string
	BasePrice            string
	TotalPrice           string
	DistanceKm           string
	LastTicketingDate    string
	SegmentCabinType     string
	Source               string
	FareBasis            string
	DepartureDate        string
}

// Fields returns the row keyed by output column name.
func (r Row) Fields() map[string]string {
	return map[string]string{
		"TRIP_ID":                  r.TripID,
		"FLIGHT_TYPE":              r.FlightType,
		"FLIGHT_NO":                r.FlightNo,
		"CARRIER":                  r.Carrier,
		"OPERATING_AIRLINE":        r.OperatingAirline,
		"OPERATING_AIRLINE_NAME":   r.OperatingAirlineName,
		"ORIGIN":                   r.Origin,
		"DESTINATION":              r.Destination,
		"ORIGIN_CITY_NAME":         r.OriginCityName,
		"DESTINATION_CITY_NAME":    r.DestinationCityName,
		"AIRPORT_NAME_ORIGIN":      r.AirportNameOrigin,
		"AIRPORT_NAME_DESTINATION": r.AirportNameDest,
		"DEPARTURE":                r.Departure,
		"ARRIVAL":                  r.Arrival,
		"DURATION":                 r.Duration,
		"STOPS":                    r.Stops,
		"AIRCRAFT_CODE":            r.AircraftCode,
		"AIRCRAFT_NAME":            r.AircraftName,
		"CABIN":                    r.Cabin,
		"BOOKING_CLASS":            r.BookingClass,
		"FARE_CONDITIONS":          r.FareConditions,
		"CHECKED_BAGS":             r.CheckedBags,
		"BASE_PRICE":               r.BasePrice,
		"TOTAL_PRICE":              r.TotalPrice,
		"FLIGHT_DISTANCE_KM":       r.DistanceKm,
		"LAST_TICKETING_DATE":      r.LastTicketingDate,
		"SEGMENT_CABIN_TYPE":       r.SegmentCabinType,
		"SOURCE":                   r.Source,
		"FARE_BASIS":               r.FareBasis,
		"DEPARTURE_DATE":           r.DepartureDate,
	}
}
