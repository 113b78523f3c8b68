package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adrienneeaston/city-explorer-api/internal/cache"
)

const (
	defaultYelpBaseURL = "https://api.yelp.com"
	maxYelpRecords     = 20
)

// YelpClient searches local businesses near a coordinate via the Yelp
// Fusion API.
type YelpClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewYelpClient creates a business search client.
func NewYelpClient(apiKey string, opts ...Option) *YelpClient {
	o := buildOptions(defaultYelpBaseURL, opts...)
	return &YelpClient{http: o.httpClient, baseURL: o.baseURL, apiKey: apiKey}
}

type yelpSearchResponse struct {
	Businesses []struct {
		Name     string  `json:"name"`
		ImageURL string  `json:"image_url"`
		Price    string  `json:"price"`
		Rating   float64 `json:"rating"`
		URL      string  `json:"url"`
	} `json:"businesses"`
}

// Search returns up to maxYelpRecords normalized businesses near the
// coordinate.
func (y *YelpClient) Search(ctx context.Context, lat, lng float64) ([]cache.Fields, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lng))
	q.Set("limit", fmt.Sprintf("%d", maxYelpRecords))
	u := fmt.Sprintf("%s/v3/businesses/search?%s", y.baseURL, q.Encode())

	header := http.Header{}
	header.Set("Authorization", "Bearer "+y.apiKey)

	var resp yelpSearchResponse
	if err := getJSON(ctx, y.http, u, "/v3/businesses/search", header, &resp); err != nil {
		return nil, err
	}
	if len(resp.Businesses) == 0 {
		return nil, fmt.Errorf("businesses near %f,%f: %w", lat, lng, cache.ErrNoData)
	}

	records := make([]cache.Fields, 0, len(resp.Businesses))
	for _, biz := range resp.Businesses {
		records = append(records, cache.Fields{
			"name":      biz.Name,
			"image_url": biz.ImageURL,
			"price":     biz.Price,
			"rating":    biz.Rating,
			"url":       biz.URL,
		})
	}
	return records, nil
}
