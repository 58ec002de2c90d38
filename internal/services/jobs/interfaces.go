package jobs

import (
	"context"
	"time"

	"github.com/killallgit/studio-api/internal/models"
)

// Service defines the business logic interface for job operations
type Service interface {
	// Enqueue operations
	EnqueueJob(ctx context.Context, jobType models.JobType, sessionID string, payload models.JobPayload) (*models.Job, error)

	// Status and retrieval
	GetJob(ctx context.Context, jobID uint) (*models.Job, error)
	ListSessionJobs(ctx context.Context, sessionID string, limit int) ([]*models.Job, error)

	// Worker operations (used by worker pool)
	ClaimJob(ctx context.Context, jobID uint, workerID string) (*models.Job, error)
	CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error
	FailJob(ctx context.Context, jobID uint, err error) error
	CancelJob(ctx context.Context, jobID uint, reason error) error

	// Maintenance
	CleanupOldJobs(ctx context.Context, olderThan time.Duration) (int64, error)
}
