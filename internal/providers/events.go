package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adrienneeaston/city-explorer-api/internal/cache"
)

const defaultEventsBaseURL = "https://www.eventbriteapi.com"

// maxEventRecords caps how many upstream events are normalized per fetch.
const maxEventRecords = 20

// EventsClient searches upcoming events near a coordinate via the
// Eventbrite API.
type EventsClient struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewEventsClient creates an event search client.
func NewEventsClient(token string, opts ...Option) *EventsClient {
	o := buildOptions(defaultEventsBaseURL, opts...)
	return &EventsClient{http: o.httpClient, baseURL: o.baseURL, token: token}
}

type eventsResponse struct {
	Events []struct {
		URL  string `json:"url"`
		Name struct {
			Text string `json:"text"`
		} `json:"name"`
		Start struct {
			Local string `json:"local"`
		} `json:"start"`
		Summary string `json:"summary"`
	} `json:"events"`
}

// Search returns up to maxEventRecords normalized events near the coordinate.
func (e *EventsClient) Search(ctx context.Context, lat, lng float64) ([]cache.Fields, error) {
	q := url.Values{}
	q.Set("location.latitude", fmt.Sprintf("%f", lat))
	q.Set("location.longitude", fmt.Sprintf("%f", lng))
	q.Set("expand", "venue")
	u := fmt.Sprintf("%s/v3/events/search/?%s", e.baseURL, q.Encode())

	header := http.Header{}
	header.Set("Authorization", "Bearer "+e.token)

	var resp eventsResponse
	if err := getJSON(ctx, e.http, u, "/v3/events/search", header, &resp); err != nil {
		return nil, err
	}
	if len(resp.Events) == 0 {
		return nil, fmt.Errorf("events near %f,%f: %w", lat, lng, cache.ErrNoData)
	}

	events := resp.Events
	if len(events) > maxEventRecords {
		events = events[:maxEventRecords]
	}
	records := make([]cache.Fields, 0, len(events))
	for _, ev := range events {
		records = append(records, cache.Fields{
			"link":       ev.URL,
			"name":       ev.Name.Text,
			"event_date": ev.Start.Local,
			"summary":    ev.Summary,
		})
	}
	return records, nil
}
