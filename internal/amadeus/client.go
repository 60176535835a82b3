// Package amadeus is a client for the Amadeus self-service flight and reference data APIs.
package amadeus

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/i474232898/flight-weather-insights/internal/httpclient"
)

const (
	DefaultBaseURL = "https://test.api.amadeus.com"
	tokenPath      = "/v1/security/oauth2/token"
	serviceName    = "amadeus"
)

var ErrMissingCredentials = errors.New("amadeus client id and secret are required")

// Client talks to Amadeus. It implements flights.Source and reference.Directory.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

// NewClient builds a Client that authenticates with the client credentials grant. base is
// used for both token and API calls; nil means http.DefaultClient.
func NewClient(ctx context.Context, base *http.Client, clientID, clientSecret, baseURL string) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if base == nil {
		base = http.DefaultClient
	}

	creds := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	// the token source keeps using ctx for refreshes, so it must outlive single requests
	authed := creds.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	authed.Timeout = base.Timeout

	return &Client{
		baseURL: baseURL,
		http:    httpclient.New(serviceName, authed),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.http.GetJSON(ctx, u, nil, out)
}
