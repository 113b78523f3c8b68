package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/adrienneeaston/city-explorer-api/internal/cache"
)

const defaultWeatherBaseURL = "https://api.darksky.net"

// WeatherClient fetches daily forecasts from the Dark Sky API.
type WeatherClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewWeatherClient creates a forecast client.
func NewWeatherClient(apiKey string, opts ...Option) *WeatherClient {
	o := buildOptions(defaultWeatherBaseURL, opts...)
	return &WeatherClient{http: o.httpClient, baseURL: o.baseURL, apiKey: apiKey}
}

type forecastResponse struct {
	Daily struct {
		Data []struct {
			Time    int64  `json:"time"`
			Summary string `json:"summary"`
		} `json:"data"`
	} `json:"daily"`
}

// Forecast returns one normalized record per forecast day.
func (w *WeatherClient) Forecast(ctx context.Context, lat, lng float64) ([]cache.Fields, error) {
	u := fmt.Sprintf("%s/forecast/%s/%f,%f?exclude=minutely,hourly,alerts,flags",
		w.baseURL, url.PathEscape(w.apiKey), lat, lng)

	var resp forecastResponse
	if err := getJSON(ctx, w.http, u, "/forecast", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Daily.Data) == 0 {
		return nil, fmt.Errorf("forecast for %f,%f: %w", lat, lng, cache.ErrNoData)
	}

	records := make([]cache.Fields, 0, len(resp.Daily.Data))
	for _, day := range resp.Daily.Data {
		records = append(records, cache.Fields{
			"forecast": day.Summary,
			"time":     time.Unix(day.Time, 0).UTC().Format("Mon Jan 02 2006"),
		})
	}
	return records, nil
}
