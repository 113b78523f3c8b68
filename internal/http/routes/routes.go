// Package routes wires the HTTP API: one endpoint per resource type, each
// resolving through the cache-aside engine with its provider as the upstream
// fetch.
package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"

	"github.com/adrienneeaston/city-explorer-api/internal/cache"
)

// Geocoder resolves a free-text search to a location record.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]cache.Fields, error)
}

// ForecastProvider fetches daily forecast records for a coordinate.
type ForecastProvider interface {
	Forecast(ctx context.Context, lat, lng float64) ([]cache.Fields, error)
}

// EventProvider fetches event records near a coordinate.
type EventProvider interface {
	Search(ctx context.Context, lat, lng float64) ([]cache.Fields, error)
}

// MovieProvider fetches movie records for a search query.
type MovieProvider interface {
	Search(ctx context.Context, query string) ([]cache.Fields, error)
}

// BusinessProvider fetches business records near a coordinate.
type BusinessProvider interface {
	Search(ctx context.Context, lat, lng float64) ([]cache.Fields, error)
}

type Server struct {
	Router *chi.Mux

	resolver *cache.Resolver
	geocoder Geocoder
	weather  ForecastProvider
	events   EventProvider
	movies   MovieProvider
	yelp     BusinessProvider
}

type ServerOptions struct {
	Resolver *cache.Resolver
	Geocoder Geocoder
	Weather  ForecastProvider
	Events   EventProvider
	Movies   MovieProvider
	Yelp     BusinessProvider
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	s := &Server{
		Router:   r,
		resolver: opts.Resolver,
		geocoder: opts.Geocoder,
		weather:  opts.Weather,
		events:   opts.Events,
		movies:   opts.Movies,
		yelp:     opts.Yelp,
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("writing health check response")
		}
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/location", s.handleLocation)
	r.Get("/weather", s.handleWeather)
	r.Get("/events", s.handleEvents)
	r.Get("/movies", s.handleMovies)
	r.Get("/yelp", s.handleYelp)

	return s
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("data")
	if query == "" {
		http.Error(w, "data query parameter is required", http.StatusBadRequest)
		return
	}

	rows, err := s.resolver.Resolve(r.Context(), cache.ResourceLocations, cache.SearchKey(query),
		func(ctx context.Context, _ cache.Key) ([]cache.Fields, error) {
			return s.geocoder.Geocode(ctx, query)
		})
	if err != nil {
		if errors.Is(err, cache.ErrNoData) {
			http.Error(w, "no location found for "+strconv.Quote(query), http.StatusNotFound)
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, rowPayload(rows[0]))
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	params, err := parseLocationParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := s.resolver.Resolve(r.Context(), cache.ResourceWeather, cache.LocationKey(params.id),
		func(ctx context.Context, _ cache.Key) ([]cache.Fields, error) {
			return s.weather.Forecast(ctx, params.lat, params.lng)
		})
	s.respondRows(w, r, rows, err)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	params, err := parseLocationParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := s.resolver.Resolve(r.Context(), cache.ResourceEvents, cache.LocationKey(params.id),
		func(ctx context.Context, _ cache.Key) ([]cache.Fields, error) {
			return s.events.Search(ctx, params.lat, params.lng)
		})
	s.respondRows(w, r, rows, err)
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	params, err := parseLocationParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if params.search == "" {
		http.Error(w, "search query parameter is required", http.StatusBadRequest)
		return
	}

	rows, err := s.resolver.Resolve(r.Context(), cache.ResourceMovies, cache.LocationKey(params.id),
		func(ctx context.Context, _ cache.Key) ([]cache.Fields, error) {
			return s.movies.Search(ctx, params.search)
		})
	s.respondRows(w, r, rows, err)
}

func (s *Server) handleYelp(w http.ResponseWriter, r *http.Request) {
	params, err := parseLocationParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := s.resolver.Resolve(r.Context(), cache.ResourceYelp, cache.LocationKey(params.id),
		func(ctx context.Context, _ cache.Key) ([]cache.Fields, error) {
			return s.yelp.Search(ctx, params.lat, params.lng)
		})
	s.respondRows(w, r, rows, err)
}

// locationParams are the query parameters of the location-dependent
// endpoints. The cache key is the location id; the coordinates and search
// text only feed the upstream fetch.
type locationParams struct {
	id     int64
	lat    float64
	lng    float64
	search string
}

func parseLocationParams(r *http.Request) (locationParams, error) {
	q := r.URL.Query()

	id, err := strconv.ParseInt(q.Get("location_id"), 10, 64)
	if err != nil {
		return locationParams{}, errors.New("location_id query parameter must be an integer")
	}
	lat, err := strconv.ParseFloat(q.Get("latitude"), 64)
	if err != nil {
		return locationParams{}, errors.New("latitude query parameter must be a number")
	}
	lng, err := strconv.ParseFloat(q.Get("longitude"), 64)
	if err != nil {
		return locationParams{}, errors.New("longitude query parameter must be a number")
	}

	return locationParams{id: id, lat: lat, lng: lng, search: q.Get("search")}, nil
}

// respondRows writes a row list, translating ErrNoData into an empty list
// rather than a failure.
func (s *Server) respondRows(w http.ResponseWriter, r *http.Request, rows []cache.Row, err error) {
	if err != nil {
		if errors.Is(err, cache.ErrNoData) {
			writeJSON(w, r, http.StatusOK, []any{})
			return
		}
		s.writeError(w, r, err)
		return
	}

	payload := make([]map[string]any, len(rows))
	for i, row := range rows {
		payload[i] = rowPayload(row)
	}
	writeJSON(w, r, http.StatusOK, payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")

	if errors.Is(err, cache.ErrUpstreamUnavailable) {
		http.Error(w, "upstream provider unavailable", http.StatusBadGateway)
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// rowPayload flattens a cached row into its response shape: the canonical
// fields plus the row id and whichever key column is populated.
func rowPayload(row cache.Row) map[string]any {
	payload := make(map[string]any, len(row.Fields)+2)
	for name, value := range row.Fields {
		payload[name] = value
	}
	payload["id"] = row.ID
	if row.SearchQuery != nil {
		payload["search_query"] = *row.SearchQuery
	}
	if row.LocationID != nil {
		payload["location_id"] = *row.LocationID
	}
	return payload
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encoding response")
	}
}
