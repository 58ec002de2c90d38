package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/studio-api/internal/models"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"go.uber.org/zap"
)

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo: repo,
		log:  log.Named("jobs"),
	}
}

func (s *service) EnqueueJob(ctx context.Context, jobType models.JobType, sessionID string, payload models.JobPayload) (*models.Job, error) {
	job := &models.Job{
		Type:        jobType,
		Status:      models.JobStatusPending,
		SessionUUID: sessionID,
		Payload:     payload,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.log.Debug("enqueued job",
		zap.Uint("job_id", job.ID),
		zap.String("type", string(jobType)),
		zap.String("session_id", sessionID))

	return job, nil
}

func (s *service) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	return job, nil
}

func (s *service) ListSessionJobs(ctx context.Context, sessionID string, limit int) ([]*models.Job, error) {
	return s.repo.GetJobsBySession(ctx, sessionID, limit)
}

func (s *service) ClaimJob(ctx context.Context, jobID uint, workerID string) (*models.Job, error) {
	job, err := s.repo.ClaimJob(ctx, jobID, workerID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) || errors.Is(err, ErrJobAlreadyClaimed) {
			return nil, err
		}
		return nil, fmt.Errorf("claiming job: %w", err)
	}

	s.log.Debug("job claimed",
		zap.Uint("job_id", job.ID),
		zap.String("type", string(job.Type)),
		zap.String("worker_id", workerID))

	return job, nil
}

func (s *service) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	if err := s.repo.CompleteJob(ctx, jobID, result); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("completing job: %w", err)
	}

	s.log.Debug("job completed", zap.Uint("job_id", jobID))
	return nil
}

// FailJob records err on the job. The error code is the pkg/errors code of
// err, or INTERNAL for plain errors.
func (s *service) FailJob(ctx context.Context, jobID uint, err error) error {
	code := apperrors.GetCode(err)

	if ferr := s.repo.FinishJob(ctx, jobID, models.JobStatusFailed, string(code), err.Error()); ferr != nil {
		if errors.Is(ferr, ErrJobNotFound) {
			return ferr
		}
		return fmt.Errorf("failing job: %w", ferr)
	}

	s.log.Warn("job failed",
		zap.Uint("job_id", jobID),
		zap.String("error_code", string(code)),
		zap.Error(err))
	return nil
}

// CancelJob marks a job that never ran, e.g. because the queue was full
func (s *service) CancelJob(ctx context.Context, jobID uint, reason error) error {
	code := apperrors.GetCode(reason)

	if err := s.repo.FinishJob(ctx, jobID, models.JobStatusCancelled, string(code), reason.Error()); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("cancelling job: %w", err)
	}

	s.log.Info("job cancelled", zap.Uint("job_id", jobID), zap.Error(reason))
	return nil
}

func (s *service) CleanupOldJobs(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("retention must be positive")
	}

	deleted, err := s.repo.DeleteOldJobs(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("cleaning up old jobs: %w", err)
	}

	if deleted > 0 {
		s.log.Info("deleted old jobs", zap.Int64("count", deleted), zap.Duration("older_than", olderThan))
	}

	return deleted, nil
}
