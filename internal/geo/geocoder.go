// Package geo resolves coordinates to a city/country pair through an
// external reverse-geocoding HTTP API. Lookups are best effort: callers
// treat failures as "location unknown", never as request failures.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Place struct {
	City    string
	Country string
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// Client calls a bigdatacloud-style reverse-geocode endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type reverseResponse struct {
	City        string `json:"city"`
	Locality    string `json:"locality"`
	CountryName string `json:"countryName"`
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lng))
	q.Set("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Place{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Place{}, fmt.Errorf("reverse geocode: decode: %w", err)
	}

	city := body.City
	if city == "" {
		city = body.Locality
	}
	return Place{City: city, Country: body.CountryName}, nil
}

// Nop is a Geocoder that resolves nothing; used in tests and when no
// geocoding endpoint is configured.
type Nop struct{}

func (Nop) Reverse(context.Context, float64, float64) (Place, error) {
	return Place{}, nil
}
