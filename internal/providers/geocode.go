package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adrienneeaston/city-explorer-api/internal/cache"
)

const defaultGeocodeBaseURL = "https://maps.googleapis.com"

// Geocoder resolves free-text place searches to coordinates via the Google
// Geocoding API.
type Geocoder struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewGeocoder creates a geocoding client.
func NewGeocoder(apiKey string, opts ...Option) *Geocoder {
	o := buildOptions(defaultGeocodeBaseURL, opts...)
	return &Geocoder{http: o.httpClient, baseURL: o.baseURL, apiKey: apiKey}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns one normalized location record for the search query.
func (g *Geocoder) Geocode(ctx context.Context, query string) ([]cache.Fields, error) {
	u := fmt.Sprintf("%s/maps/api/geocode/json?address=%s&key=%s",
		g.baseURL, url.QueryEscape(query), url.QueryEscape(g.apiKey))

	var resp geocodeResponse
	if err := getJSON(ctx, g.http, u, "/maps/api/geocode/json", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("geocode %q: status %s", query, resp.Status)
	}
	if resp.Status == "ZERO_RESULTS" || len(resp.Results) == 0 {
		return nil, fmt.Errorf("geocode %q: %w", query, cache.ErrNoData)
	}

	best := resp.Results[0]
	return []cache.Fields{{
		"formatted_query": best.FormattedAddress,
		"latitude":        best.Geometry.Location.Lat,
		"longitude":       best.Geometry.Location.Lng,
	}}, nil
}
