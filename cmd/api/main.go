// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/adrienneeaston/city-explorer-api/internal/cache"
	"github.com/adrienneeaston/city-explorer-api/internal/config"
	"github.com/adrienneeaston/city-explorer-api/internal/http/routes"
	"github.com/adrienneeaston/city-explorer-api/internal/logging"
	"github.com/adrienneeaston/city-explorer-api/internal/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}
	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// DB
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}
	defer pool.Close()

	registry := cache.DefaultRegistry()
	store := cache.NewStore(pool, logger)
	if err := store.EnsureSchema(context.Background(), registry); err != nil {
		logger.Fatal().Err(err).Msg("creating schema")
	}
	evaluator := cache.NewEvaluator(store, logger)
	resolver := cache.NewResolver(registry, store, evaluator, logger)

	// Router / server
	s := routes.New(routes.ServerOptions{
		Resolver: resolver,
		Geocoder: providers.NewGeocoder(cfg.Geocode.APIKey),
		Weather:  providers.NewWeatherClient(cfg.Weather.APIKey),
		Events:   providers.NewEventsClient(cfg.Eventbrite.APIKey),
		Movies:   providers.NewMovieClient(cfg.Movie.APIKey),
		Yelp:     providers.NewYelpClient(cfg.Yelp.APIKey),
	})
	h := hlog.NewHandler(logger)(s.Router)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: h}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("server listening")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutting down server")
	}
	logger.Info().Msg("server stopped")
}
