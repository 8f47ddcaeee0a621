package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/quiz-leaderboard/internal/api/middleware"
	"github.com/dvloznov/quiz-leaderboard/internal/jobs"
	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
	"github.com/dvloznov/quiz-leaderboard/internal/source"
)

// LeaderboardService builds leaderboards from the current datasets.
type LeaderboardService interface {
	Flat(ctx context.Context) ([]leaderboard.MatchedUser, error)
	ByCategory(ctx context.Context) (leaderboard.CategoryBoard, error)
	Catalog() leaderboard.Catalog
}

// LeaderboardHandler handles leaderboard endpoints.
type LeaderboardHandler struct {
	service LeaderboardService
	log     zerolog.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(service LeaderboardService, log zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		log:     log,
	}
}

// Flat handles GET /api/leaderboard
func (h *LeaderboardHandler) Flat(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Flat(r.Context())
	if err != nil {
		h.writeBuildError(w, err, "Failed to build leaderboard")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard": users,
		"summary":     leaderboard.Summarize(users),
		"count":       len(users),
	})
}

// ByCategory handles GET /api/leaderboard/categories
// An optional ?category=<id> narrows the response to one category.
func (h *LeaderboardHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category")

	var category leaderboard.Category
	if categoryID != "" {
		var ok bool
		category, ok = h.service.Catalog().Find(categoryID)
		if !ok {
			middleware.WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
	}

	board, err := h.service.ByCategory(r.Context())
	if err != nil {
		h.writeBuildError(w, err, "Failed to build category leaderboards")
		return
	}

	if categoryID != "" {
		users, _ := board.Board(categoryID)
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"category":    category,
			"leaderboard": users,
			"summary":     leaderboard.Summarize(users),
			"count":       len(users),
		})
		return
	}

	summaries := make(map[string]leaderboard.Summary, len(board.Leaderboards))
	for id, users := range board.Leaderboards {
		summaries[id] = leaderboard.Summarize(users)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories":   board.Categories,
		"leaderboards": board.Leaderboards,
		"totalUsers":   board.TotalUsers,
		"summaries":    summaries,
	})
}

// Categories handles GET /api/categories
func (h *LeaderboardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.service.Catalog()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// writeBuildError reports a failed build. Retrieval failures are the upstream's
// fault and map to 502; no partial leaderboard is ever written.
func (h *LeaderboardHandler) writeBuildError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, source.ErrRetrieval) {
		h.log.Error().Err(err).Msg("Failed to fetch datasets")
		middleware.WriteError(w, http.StatusBadGateway, source.ErrRetrieval.Error())
		return
	}

	h.log.Error().Err(err).Msg(msg)
	middleware.WriteError(w, http.StatusInternalServerError, msg)
}

// BuildsHandler handles asynchronous build endpoints.
type BuildsHandler struct {
	publisher jobs.Publisher
	store     jobs.JobStore
	log       zerolog.Logger
}

// NewBuildsHandler creates a new builds handler.
func NewBuildsHandler(publisher jobs.Publisher, store jobs.JobStore, log zerolog.Logger) *BuildsHandler {
	return &BuildsHandler{
		publisher: publisher,
		store:     store,
		log:       log,
	}
}

// CreateBuild handles POST /api/builds
// An empty body requests a flat build.
func (h *BuildsHandler) CreateBuild(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode jobs.BuildMode `json:"mode"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Mode == "" {
		req.Mode = jobs.BuildModeFlat
	}
	if !req.Mode.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Mode must be flat or categories")
		return
	}

	job := &jobs.BuildLeaderboardJob{Mode: req.Mode}
	if err := h.publisher.PublishBuild(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue build job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue build job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("mode", string(job.Mode)).Msg("Build job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, job)
}

// GetBuild handles GET /api/builds/{id}
func (h *BuildsHandler) GetBuild(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListBuilds handles GET /api/builds
func (h *BuildsHandler) ListBuilds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Mode:   jobs.BuildMode(query.Get("mode")),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	if jobsList == nil {
		jobsList = []*jobs.BuildLeaderboardJob{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"builds": jobsList,
		"count":  len(jobsList),
	})
}
