package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/quiz-leaderboard/internal/api/handlers"
	"github.com/dvloznov/quiz-leaderboard/internal/api/middleware"
	"github.com/dvloznov/quiz-leaderboard/internal/config"
	"github.com/dvloznov/quiz-leaderboard/internal/jobs/inmemory"
	"github.com/dvloznov/quiz-leaderboard/internal/logger"
	"github.com/dvloznov/quiz-leaderboard/internal/service"
	"github.com/dvloznov/quiz-leaderboard/internal/source"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Flags override the environment
	var (
		port         = flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
		transactions = flag.String("transactions", cfg.TransactionsURI, "Transactions dataset URI (http(s)://, gs://, bq:// or a file path)")
		players      = flag.String("players", cfg.PlayersURI, "Players dataset URI (http(s)://, gs://, bq:// or a file path)")
		catalogFile  = flag.String("catalog", cfg.CatalogFile, "Category catalog JSON file (defaults to the built-in catalog)")
	)
	flag.Parse()
	cfg.Port = *port
	cfg.TransactionsURI = *transactions
	cfg.PlayersURI = *players
	cfg.CatalogFile = *catalogFile

	log = logger.NewWithLevel(cfg.LogLevel)

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
	svc := service.New(loader, catalog, log)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobBuffer, cfg.JobWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	log.Info().Int("workers", cfg.JobWorkers).Msg("Starting job workers")
	if err := jobQueue.Start(logger.WithContext(workerCtx, log), svc.HandleBuild); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}

	// Initialize handlers
	leaderboardHandler := handlers.NewLeaderboardHandler(svc, log)
	buildsHandler := handlers.NewBuildsHandler(jobQueue, jobStore, log)

	// Create router
	mux := http.NewServeMux()

	// Leaderboard endpoints
	mux.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			leaderboardHandler.Flat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/leaderboard/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			leaderboardHandler.ByCategory(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			leaderboardHandler.Categories(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Build endpoints
	mux.HandleFunc("/api/builds", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			buildsHandler.ListBuilds(w, r)
		case http.MethodPost:
			buildsHandler.CreateBuild(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/builds/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/builds/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			buildsHandler.GetBuild(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Standard(mux, log)

	// Synchronous builds wait on the dataset fetch
	writeTimeout := 15 * time.Second
	if cfg.FetchTimeout > 0 {
		writeTimeout += cfg.FetchTimeout
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("transactions", cfg.TransactionsURI).
			Str("players", cfg.PlayersURI).
			Int("categories", len(catalog)).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	cancelWorker()

	log.Info().Msg("Server exited")
}
