package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adrienneeaston/city-explorer-api/internal/cache"
)

const (
	defaultMovieBaseURL = "https://api.themoviedb.org"
	moviePosterBaseURL  = "https://image.tmdb.org/t/p/w500"
	maxMovieRecords     = 20
)

// MovieClient searches movies related to a city via The Movie Database.
type MovieClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewMovieClient creates a movie search client.
func NewMovieClient(apiKey string, opts ...Option) *MovieClient {
	o := buildOptions(defaultMovieBaseURL, opts...)
	return &MovieClient{http: o.httpClient, baseURL: o.baseURL, apiKey: apiKey}
}

type movieSearchResponse struct {
	Results []struct {
		Title       string  `json:"title"`
		Overview    string  `json:"overview"`
		VoteAverage float64 `json:"vote_average"`
		VoteCount   int64   `json:"vote_count"`
		PosterPath  string  `json:"poster_path"`
		Popularity  float64 `json:"popularity"`
		ReleaseDate string  `json:"release_date"`
	} `json:"results"`
}

// Search returns up to maxMovieRecords normalized movies matching the query.
func (m *MovieClient) Search(ctx context.Context, query string) ([]cache.Fields, error) {
	u := fmt.Sprintf("%s/3/search/movie?api_key=%s&query=%s",
		m.baseURL, url.QueryEscape(m.apiKey), url.QueryEscape(query))

	var resp movieSearchResponse
	if err := getJSON(ctx, m.http, u, "/3/search/movie", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("movies for %q: %w", query, cache.ErrNoData)
	}

	results := resp.Results
	if len(results) > maxMovieRecords {
		results = results[:maxMovieRecords]
	}
	records := make([]cache.Fields, 0, len(results))
	for _, movie := range results {
		imageURL := ""
		if movie.PosterPath != "" {
			imageURL = moviePosterBaseURL + movie.PosterPath
		}
		records = append(records, cache.Fields{
			"title":         movie.Title,
			"overview":      movie.Overview,
			"average_votes": movie.VoteAverage,
			"total_votes":   movie.VoteCount,
			"image_url":     imageURL,
			"popularity":    movie.Popularity,
			"released_on":   movie.ReleaseDate,
		})
	}
	return records, nil
}
