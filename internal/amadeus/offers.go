package amadeus

import (
	"context"
	"net/url"
	"strconv"

	"github.com/i474232898/flight-weather-insights/internal/common"
	"github.com/i474232898/flight-weather-insights/internal/flights"
)

const offersPath = "/v2/shopping/flight-offers"

var _ flights.Source = (*Client)(nil)

type offersResponse struct {
	Data []offerPayload `json:"data"`
}

type offerPayload struct {
	ID                    string `json:"id"`
	LastTicketingDate     string `json:"lastTicketingDate"`
	NumberOfBookableSeats *int   `json:"numberOfBookableSeats"`
	Price                 struct {
		Currency   string `json:"currency"`
		Base       string `json:"base"`
		GrandTotal string `json:"grandTotal"`
	} `json:"price"`
	Itineraries []struct {
		Duration string           `json:"duration"`
		Segments []segmentPayload `json:"segments"`
	} `json:"itineraries"`
	TravelerPricings []struct {
		TravelerID           string `json:"travelerId"`
		FareDetailsBySegment []struct {
			SegmentID string `json:"segmentId"`
			Cabin     string `json:"cabin"`
			FareBasis string `json:"fareBasis"`
			Class     string `json:"class"`
		} `json:"fareDetailsBySegment"`
	} `json:"travelerPricings"`
}

type endpointPayload struct {
	IATA     string `json:"iataCode"`
	Terminal string `json:"terminal"`
	At       string `json:"at"`
}

type segmentPayload struct {
	ID          string          `json:"id"`
	CarrierCode string          `json:"carrierCode"`
	Number      string          `json:"number"`
	Departure   endpointPayload `json:"departure"`
	Arrival     endpointPayload `json:"arrival"`
	Duration    string          `json:"duration"`
	Aircraft    struct {
		Code string `json:"code"`
	} `json:"aircraft"`
	Operating *struct {
		CarrierCode string `json:"carrierCode"`
	} `json:"operating"`
	Cabin        string `json:"cabin"`
	Class        string `json:"class"`
	CO2Emissions []struct {
		Cabin string `json:"cabin"`
	} `json:"co2Emissions"`
}

// SearchOffers implements flights.Source.
func (c *Client) SearchOffers(ctx context.Context, q flights.Query) ([]flights.Offer, error) {
	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", common.DateKey(q.Date))
	params.Set("adults", strconv.Itoa(max(q.Adults, 1)))
	if q.Max > 0 {
		params.Set("max", strconv.Itoa(q.Max))
	}

	var resp offersResponse
	if err := c.get(ctx, offersPath, params, &resp); err != nil {
		return nil, common.External(serviceName, "flight-offers", err)
	}

	offers := make([]flights.Offer, 0, len(resp.Data))
	for _, p := range resp.Data {
		offers = append(offers, p.toOffer())
	}
	return offers, nil
}

func (p offerPayload) toOffer() flights.Offer {
	o := flights.Offer{
		ID:                    p.ID,
		LastTicketingDate:     p.LastTicketingDate,
		NumberOfBookableSeats: p.NumberOfBookableSeats,
		Price: flights.Price{
			Currency:   p.Price.Currency,
			Base:       p.Price.Base,
			GrandTotal: p.Price.GrandTotal,
		},
	}
	for _, it := range p.Itineraries {
		itin := flights.Itinerary{Duration: it.Duration}
		for _, s := range it.Segments {
			itin.Segments = append(itin.Segments, s.toSegment())
		}
		o.Itineraries = append(o.Itineraries, itin)
	}
	for _, tp := range p.TravelerPricings {
		pricing := flights.TravelerPricing{TravelerID: tp.TravelerID}
		for _, fd := range tp.FareDetailsBySegment {
			pricing.FareDetails = append(pricing.FareDetails, flights.FareDetail{
				SegmentID: fd.SegmentID,
				Cabin:     fd.Cabin,
				FareBasis: fd.FareBasis,
				Class:     fd.Class,
			})
		}
		o.TravelerPricings = append(o.TravelerPricings, pricing)
	}
	return o
}

func (s segmentPayload) toSegment() flights.Segment {
	seg := flights.Segment{
		ID:          s.ID,
		CarrierCode: s.CarrierCode,
		Number:      s.Number,
		Departure:   flights.Endpoint(s.Departure),
		Arrival:     flights.Endpoint(s.Arrival),
		Duration:    s.Duration,
		Aircraft:    s.Aircraft.Code,
		Cabin:       s.Cabin,
		Class:       s.Class,
	}
	if len(s.CO2Emissions) > 0 && s.CO2Emissions[0].Cabin != "" {
		seg.Cabin = s.CO2Emissions[0].Cabin
	}
	if s.Operating != nil {
		seg.OperatingCarrier = s.Operating.CarrierCode
	}
	return seg
}
