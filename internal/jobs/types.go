package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

// ErrJobNotFound is returned by a JobStore for an unknown job ID.
var ErrJobNotFound = errors.New("job not found")

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeBuildLeaderboard represents a leaderboard build job.
	JobTypeBuildLeaderboard JobType = "build_leaderboard"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
)

// BuildMode selects which leaderboard a build produces.
type BuildMode string

const (
	// BuildModeFlat builds a single leaderboard over every play record.
	BuildModeFlat BuildMode = "flat"
	// BuildModeCategories builds one leaderboard per catalog category.
	BuildModeCategories BuildMode = "categories"
)

// Valid reports whether m is a known build mode.
func (m BuildMode) Valid() bool {
	return m == BuildModeFlat || m == BuildModeCategories
}

// BuildResult is the output of a completed build. Exactly one of Users or
// Board is set, depending on the job's mode.
type BuildResult struct {
	Users   []leaderboard.MatchedUser  `json:"users,omitempty"`
	Board   *leaderboard.CategoryBoard `json:"board,omitempty"`
	Summary leaderboard.Summary        `json:"summary"`
}

// BuildLeaderboardJob represents a job to fetch both datasets and build a leaderboard.
type BuildLeaderboardJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Mode selects the flat or per-category leaderboard.
	Mode BuildMode `json:"mode"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// Result holds the leaderboard once the job completed.
	Result *BuildResult `json:"result,omitempty"`
}

// Job is a generic interface for all job types.
type Job interface {
	// GetID returns the unique job identifier.
	GetID() string

	// GetType returns the job type.
	GetType() JobType

	// GetStatus returns the current job status.
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *BuildLeaderboardJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *BuildLeaderboardJob) GetType() JobType {
	return JobTypeBuildLeaderboard
}

// GetStatus implements the Job interface.
func (j *BuildLeaderboardJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishBuild publishes a leaderboard build job.
	PublishBuild(ctx context.Context, job *BuildLeaderboardJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job.
// A build handler records its output on the job's Result before returning.
type JobHandler func(ctx context.Context, job Job) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *BuildLeaderboardJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*BuildLeaderboardJob, error)

	// ListJobs retrieves jobs with optional filtering, newest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*BuildLeaderboardJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Mode filters jobs by build mode.
	Mode BuildMode

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset skips the first results.
	Offset int
}
