package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/dvloznov/quiz-leaderboard/internal/config"
	"github.com/dvloznov/quiz-leaderboard/internal/logger"
	"github.com/dvloznov/quiz-leaderboard/internal/service"
	"github.com/dvloznov/quiz-leaderboard/internal/source"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithLevel(cfg.LogLevel)

	switch os.Args[1] {
	case "flat":
		runFlat(log, cfg)
	case "categories":
		runCategories(log, cfg)
	case "catalog":
		runCatalog(log, cfg)
	case "stage":
		runStage(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Quiz Leaderboard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  flat        Build the leaderboard over every quiz round")
	fmt.Println("  categories  Build one leaderboard per quiz category")
	fmt.Println("  catalog     List the quiz categories")
	fmt.Println("  stage       Validate a local dataset and upload it to GCS")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nDataset URIs may be http(s)://, gs://bucket/object, bq://project/dataset/table or a file path.")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// datasetFlags registers the flags shared by every build command.
type datasetFlags struct {
	transactions *string
	players      *string
	catalog      *string
	json         *bool
}

func registerDatasetFlags(fs *flag.FlagSet, cfg config.Config) datasetFlags {
	return datasetFlags{
		transactions: fs.String("transactions", cfg.TransactionsURI, "Transactions dataset URI"),
		players:      fs.String("players", cfg.PlayersURI, "Players dataset URI"),
		catalog:      fs.String("catalog", cfg.CatalogFile, "Category catalog JSON file"),
		json:         fs.Bool("json", false, "Print JSON instead of a table"),
	}
}

func (f datasetFlags) apply(cfg config.Config) config.Config {
	cfg.TransactionsURI = *f.transactions
	cfg.PlayersURI = *f.players
	cfg.CatalogFile = *f.catalog
	return cfg
}

func newService(log zerolog.Logger, cfg config.Config) *service.Service {
	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load category catalog")
	}

	loader := source.NewLoader(
		source.NewRouter(&http.Client{}, cfg.BigQueryProject),
		cfg.TransactionsURI,
		cfg.PlayersURI,
		cfg.FetchTimeout,
	)
	return service.New(loader, catalog, log)
}

func runFlat(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("flat", flag.ExitOnError)
	flags := registerDatasetFlags(fs, cfg)
	limit := fs.Int("limit", 0, "Show only the top N players (0 shows all)")
	fs.Parse(os.Args[2:])
	cfg = flags.apply(cfg)

	ctx := logger.WithContext(context.Background(), log)
	svc := newService(log, cfg)

	log.Info().Str("transactions", cfg.TransactionsURI).Str("players", cfg.PlayersURI).Msg("Building leaderboard")

	users, err := svc.Flat(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build leaderboard")
	}

	if *flags.json {
		if err := writeJSON(os.Stdout, users); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output")
		}
		return
	}

	if err := writeBoard(os.Stdout, "Leaderboard", users, *limit); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}

func runCategories(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	flags := registerDatasetFlags(fs, cfg)
	categoryID := fs.String("category", "", "Show only this category ID")
	limit := fs.Int("limit", 0, "Show only the top N players per category (0 shows all)")
	fs.Parse(os.Args[2:])
	cfg = flags.apply(cfg)

	ctx := logger.WithContext(context.Background(), log)
	svc := newService(log, cfg)

	if *categoryID != "" {
		if _, ok := svc.Catalog().Find(*categoryID); !ok {
			log.Fatal().Str("category", *categoryID).Msg("Unknown category")
		}
	}

	log.Info().Str("transactions", cfg.TransactionsURI).Str("players", cfg.PlayersURI).Msg("Building category leaderboards")

	board, err := svc.ByCategory(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build category leaderboards")
	}

	if *flags.json {
		var out any = board
		if *categoryID != "" {
			users, _ := board.Board(*categoryID)
			out = users
		}
		if err := writeJSON(os.Stdout, out); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output")
		}
		return
	}

	for _, cat := range board.Categories {
		if *categoryID != "" && cat.ID != *categoryID {
			continue
		}
		title := fmt.Sprintf("%s (%s)", cat.Name, cat.ID)
		if err := writeBoard(os.Stdout, title, board.Leaderboards[cat.ID], *limit); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output")
		}
	}
	fmt.Printf("Total matched users: %d\n", board.TotalUsers)
}

func runCatalog(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	catalogFile := fs.String("catalog", cfg.CatalogFile, "Category catalog JSON file")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	fs.Parse(os.Args[2:])
	cfg.CatalogFile = *catalogFile

	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load category catalog")
	}

	if *asJSON {
		err = writeJSON(os.Stdout, catalog)
	} else {
		err = writeCatalog(os.Stdout, catalog)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}
