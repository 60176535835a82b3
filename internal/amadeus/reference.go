package amadeus

import (
	"context"
	"net/url"
	"strconv"

	"github.com/i474232898/flight-weather-insights/internal/common"
	"github.com/i474232898/flight-weather-insights/internal/reference"
)

const (
	locationsPath = "/v1/reference-data/locations"
	airlinesPath  = "/v1/reference-data/airlines"
)

var _ reference.Directory = (*Client)(nil)

type locationPayload struct {
	Name     string `json:"name"`
	IATACode string `json:"iataCode"`
	SubType  string `json:"subType"`
	Address  struct {
		CityName    string `json:"cityName"`
		CountryName string `json:"countryName"`
	} `json:"address"`
	GeoCode struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"geoCode"`
}

type locationsResponse struct {
	Data []locationPayload `json:"data"`
}

type airlinesResponse struct {
	Data []struct {
		IATACode     string `json:"iataCode"`
		BusinessName string `json:"businessName"`
	} `json:"data"`
}

// AirportByCode returns the first AIRPORT match for iata, or nil when there is none.
func (c *Client) AirportByCode(ctx context.Context, iata string) (*reference.Airport, error) {
	params := url.Values{}
	params.Set("keyword", iata)
	params.Set("subType", "AIRPORT")

	var resp locationsResponse
	if err := c.get(ctx, locationsPath, params, &resp); err != nil {
		return nil, common.External(serviceName, "airport-lookup", err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	l := resp.Data[0]
	return &reference.Airport{
		IATA:    common.FirstNonEmpty(l.IATACode, iata),
		Name:    l.Name,
		City:    l.Address.CityName,
		Country: l.Address.CountryName,
		SubType: l.SubType,
		Lat:     l.GeoCode.Latitude,
		Lon:     l.GeoCode.Longitude,
	}, nil
}

// SearchLocations runs a keyword search over cities and airports.
func (c *Client) SearchLocations(ctx context.Context, query string, limit int) ([]reference.Candidate, error) {
	params := url.Values{}
	params.Set("keyword", query)
	params.Set("subType", "CITY,AIRPORT")
	if limit > 0 {
		params.Set("page[limit]", strconv.Itoa(limit))
	}

	var resp locationsResponse
	if err := c.get(ctx, locationsPath, params, &resp); err != nil {
		return nil, common.External(serviceName, "location-search", err)
	}
	out := make([]reference.Candidate, 0, len(resp.Data))
	for _, l := range resp.Data {
		out = append(out, reference.Candidate{
			Name:    l.Name,
			IATA:    l.IATACode,
			City:    l.Address.CityName,
			Country: l.Address.CountryName,
			Lat:     l.GeoCode.Latitude,
			Lon:     l.GeoCode.Longitude,
			Type:    l.SubType,
		})
	}
	return out, nil
}

// AirlineName returns the business name of carrier, or "" when the directory has none.
func (c *Client) AirlineName(ctx context.Context, carrier string) (string, error) {
	params := url.Values{}
	params.Set("airlineCodes", carrier)

	var resp airlinesResponse
	if err := c.get(ctx, airlinesPath, params, &resp); err != nil {
		return "", common.External(serviceName, "airline-lookup", err)
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].BusinessName, nil
}
