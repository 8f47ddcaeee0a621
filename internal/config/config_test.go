package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TransactionsURI != DefaultTransactionsURI {
		t.Errorf("TransactionsURI = %q", cfg.TransactionsURI)
	}
	if cfg.PlayersURI != DefaultPlayersURI {
		t.Errorf("PlayersURI = %q", cfg.PlayersURI)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %s, want 30s", cfg.FetchTimeout)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" {
		t.Errorf("Port/LogLevel = %q/%q", cfg.Port, cfg.LogLevel)
	}
	if cfg.JobWorkers != 2 || cfg.JobBuffer != 100 {
		t.Errorf("JobWorkers/JobBuffer = %d/%d", cfg.JobWorkers, cfg.JobBuffer)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEADERBOARD_TRANSACTIONS_URI", "gs://charging/tx.json")
	t.Setenv("LEADERBOARD_PLAYERS_URI", "bq://quizard/raw/players")
	t.Setenv("LEADERBOARD_FETCH_TIMEOUT", "5s")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BIGQUERY_PROJECT", "quizard")
	t.Setenv("JOB_WORKERS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TransactionsURI != "gs://charging/tx.json" || cfg.PlayersURI != "bq://quizard/raw/players" {
		t.Errorf("URIs = %q, %q", cfg.TransactionsURI, cfg.PlayersURI)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %s, want 5s", cfg.FetchTimeout)
	}
	if cfg.Port != "9090" || cfg.LogLevel != "debug" || cfg.BigQueryProject != "quizard" || cfg.JobWorkers != 4 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("LEADERBOARD_FETCH_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{TransactionsURI: "a", PlayersURI: "b", JobWorkers: 1}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no transactions", func(c *Config) { c.TransactionsURI = "" }, true},
		{"no players", func(c *Config) { c.PlayersURI = "" }, true},
		{"negative timeout", func(c *Config) { c.FetchTimeout = -time.Second }, true},
		{"no workers", func(c *Config) { c.JobWorkers = 0 }, true},
		{"negative buffer", func(c *Config) { c.JobBuffer = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	cfg := Config{}
	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(catalog) != 4 {
		t.Errorf("default catalog has %d categories, want 4", len(catalog))
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`[{"id":"501","name":"Science Quiz"}]`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg.CatalogFile = path

	catalog, err = cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(catalog) != 1 || catalog[0].ID != "501" {
		t.Errorf("Catalog() = %+v", catalog)
	}

	cfg.CatalogFile = filepath.Join(t.TempDir(), "missing.json")
	if _, err := cfg.Catalog(); err == nil {
		t.Error("expected error for missing catalog file")
	}
}
