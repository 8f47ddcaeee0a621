package main

import (
	"context"
	"flag"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/quiz-leaderboard/internal/config"
	infraBQ "github.com/dvloznov/quiz-leaderboard/internal/infra/bigquery"
	"github.com/dvloznov/quiz-leaderboard/internal/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var (
		projectID = flag.String("project", cfg.BigQueryProject, "GCP project ID (or set BIGQUERY_PROJECT env)")
		datasetID = flag.String("dataset", "quizard", "BigQuery dataset ID")
		appliedBy = flag.String("applied-by", "migrate-cli", "Name of the tool applying migrations")
	)
	flag.Parse()

	log = logger.NewWithLevel(cfg.LogLevel)

	if *projectID == "" {
		log.Fatal().Msg("Error: -project flag is required. Please specify your GCP project ID.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	migrations, err := infraBQ.LoadMigrations(infraBQ.Migrations, "migrations", *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read migrations")
	}

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer client.Close()

	log.Info().
		Str("project", *projectID).
		Str("dataset", *datasetID).
		Int("migrations", len(migrations)).
		Msg("Connected to BigQuery")

	migrator := infraBQ.NewMigrator(client, *projectID, *datasetID, *appliedBy, log)
	applied, err := migrator.Apply(ctx, migrations)
	if err != nil {
		log.Fatal().Err(err).Int("applied", applied).Msg("Migration failed")
	}

	if applied == 0 {
		log.Info().Msg("No new migrations to apply. Dataset is up to date.")
	} else {
		log.Info().Int("applied", applied).Msg("Migrations applied")
	}
}
