// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

const (
	// DefaultTransactionsURI is the published bKash charging dataset.
	DefaultTransactionsURI = "https://ms.purplepatch.online/charging_data/quizard/quizard_24_to_28_bkash_charging_data.json"

	// DefaultPlayersURI is the published quiz player dataset.
	DefaultPlayersURI = "https://ms.purplepatch.online/charging_data/quizard/quizard_28_player_raw_data.json"
)

// Config holds every setting of the leaderboard binaries.
type Config struct {
	TransactionsURI string        `env:"LEADERBOARD_TRANSACTIONS_URI"`
	PlayersURI      string        `env:"LEADERBOARD_PLAYERS_URI"`
	CatalogFile     string        `env:"LEADERBOARD_CATALOG_FILE"`
	FetchTimeout    time.Duration `env:"LEADERBOARD_FETCH_TIMEOUT" envDefault:"30s"`

	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	BigQueryProject string `env:"BIGQUERY_PROJECT"`

	JobWorkers int `env:"JOB_WORKERS" envDefault:"2"`
	JobBuffer  int `env:"JOB_BUFFER" envDefault:"100"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		TransactionsURI: DefaultTransactionsURI,
		PlayersURI:      DefaultPlayersURI,
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.TransactionsURI == "" {
		return fmt.Errorf("config: transactions URI is required")
	}
	if c.PlayersURI == "" {
		return fmt.Errorf("config: players URI is required")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("config: fetch timeout must not be negative")
	}
	if c.JobWorkers < 1 {
		return fmt.Errorf("config: job workers must be at least 1")
	}
	if c.JobBuffer < 0 {
		return fmt.Errorf("config: job buffer must not be negative")
	}
	return nil
}

// Catalog returns the category catalog: the file named by CatalogFile when
// set, otherwise the built-in catalog.
func (c Config) Catalog() (leaderboard.Catalog, error) {
	if c.CatalogFile == "" {
		return leaderboard.DefaultCatalog(), nil
	}

	f, err := os.Open(c.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", c.CatalogFile, err)
	}
	defer f.Close()

	return leaderboard.LoadCatalog(f)
}
