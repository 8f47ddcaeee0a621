package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/quiz-leaderboard/internal/logger"
	"github.com/dvloznov/quiz-leaderboard/internal/source"
)

// countRecords decodes a local dataset file of the given kind and returns its
// record count, rejecting files the leaderboard could not load.
func countRecords(ctx context.Context, kind, path string) (int, error) {
	fetcher := source.JSONFetcher{Reader: source.FileReader{}}

	switch kind {
	case "transactions":
		txs, err := fetcher.FetchTransactions(ctx, path)
		return len(txs), err
	case "players":
		plays, err := fetcher.FetchPlays(ctx, path)
		return len(plays), err
	default:
		return 0, fmt.Errorf("unknown dataset kind %q (want transactions or players)", kind)
	}
}

func runStage(log zerolog.Logger) {
	fs := flag.NewFlagSet("stage", flag.ExitOnError)
	kind := fs.String("kind", "", "Dataset kind: transactions or players")
	filePath := fs.String("file", "", "Path to local JSON dataset")
	dest := fs.String("dest", "", "Destination gs://bucket/object URI")
	fs.Parse(os.Args[2:])

	if *kind == "" || *filePath == "" || *dest == "" {
		log.Fatal().Msg("Usage: cli stage -kind transactions|players -file PATH -dest gs://BUCKET/OBJECT")
	}
	if _, _, err := source.ParseGCSURI(*dest); err != nil {
		log.Fatal().Err(err).Msg("Invalid destination")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	n, err := countRecords(ctx, *kind, *filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Dataset is not loadable")
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open dataset")
	}
	defer f.Close()

	log.Info().
		Str("kind", *kind).
		Str("file", *filePath).
		Str("dest", *dest).
		Int("records", n).
		Msg("Uploading dataset to GCS")

	if err := source.UploadBlob(ctx, *dest, f); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Staged %d %s records at %s\n", n, *kind, *dest)
}
