// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	DatabaseURL string `env:"DATABASE_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	Geocode    ProviderConfig `envPrefix:"GEOCODE_"`
	Weather    ProviderConfig `envPrefix:"WEATHER_"`
	Eventbrite ProviderConfig `envPrefix:"EVENTBRITE_"`
	Movie      ProviderConfig `envPrefix:"MOVIE_"`
	Yelp       ProviderConfig `envPrefix:"YELP_"`
}

// ProviderConfig holds the credentials for one upstream provider.
type ProviderConfig struct {
	APIKey string `env:"API_KEY"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration can run the server.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}
