// Package service runs the leaderboard pipeline over freshly loaded datasets.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/quiz-leaderboard/internal/jobs"
	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

// DatasetLoader retrieves the transaction and player datasets.
type DatasetLoader interface {
	Load(ctx context.Context) ([]leaderboard.TransactionRecord, []leaderboard.PlayRecord, error)
}

// Service builds leaderboards. Every call reloads both datasets so results
// always reflect the current inputs.
type Service struct {
	loader  DatasetLoader
	catalog leaderboard.Catalog
	log     zerolog.Logger
}

// New creates a leaderboard service.
func New(loader DatasetLoader, catalog leaderboard.Catalog, log zerolog.Logger) *Service {
	return &Service{
		loader:  loader,
		catalog: catalog,
		log:     log,
	}
}

// Catalog returns the categories used for per-category leaderboards.
func (s *Service) Catalog() leaderboard.Catalog {
	return s.catalog
}

// Flat loads both datasets and returns the ranked flat leaderboard.
func (s *Service) Flat(ctx context.Context) ([]leaderboard.MatchedUser, error) {
	txs, plays, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	users := leaderboard.BuildFlat(txs, plays)

	s.log.Debug().
		Int("transactions", len(txs)).
		Int("plays", len(plays)).
		Int("users", len(users)).
		Msg("Built flat leaderboard")

	return users, nil
}

// ByCategory loads both datasets and returns one ranked leaderboard per category.
func (s *Service) ByCategory(ctx context.Context) (leaderboard.CategoryBoard, error) {
	txs, plays, err := s.loader.Load(ctx)
	if err != nil {
		return leaderboard.CategoryBoard{}, err
	}

	board := leaderboard.BuildByCategory(txs, plays, s.catalog)

	s.log.Debug().
		Int("transactions", len(txs)).
		Int("plays", len(plays)).
		Int("categories", len(board.Categories)).
		Int("total_users", board.TotalUsers).
		Msg("Built category leaderboards")

	return board, nil
}

// HandleBuild is a jobs.JobHandler that runs a build job and stores its result on the job.
func (s *Service) HandleBuild(ctx context.Context, job jobs.Job) error {
	build, ok := job.(*jobs.BuildLeaderboardJob)
	if !ok {
		return fmt.Errorf("unexpected job type: %s", job.GetType())
	}

	log := s.log.With().Str("job_id", build.JobID).Str("mode", string(build.Mode)).Logger()
	log.Info().Msg("Processing build job")

	switch build.Mode {
	case jobs.BuildModeFlat, "":
		users, err := s.Flat(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Build job failed")
			return err
		}
		build.Result = &jobs.BuildResult{
			Users:   users,
			Summary: leaderboard.Summarize(users),
		}
	case jobs.BuildModeCategories:
		board, err := s.ByCategory(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Build job failed")
			return err
		}
		var all []leaderboard.MatchedUser
		for _, id := range board.Categories.IDs() {
			all = append(all, board.Leaderboards[id]...)
		}
		build.Result = &jobs.BuildResult{
			Board:   &board,
			Summary: leaderboard.Summarize(all),
		}
	default:
		return fmt.Errorf("unknown build mode %q", build.Mode)
	}

	log.Info().Int("players", build.Result.Summary.Players).Msg("Build job completed")
	return nil
}
