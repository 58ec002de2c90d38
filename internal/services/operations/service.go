// Package operations runs editing requests synchronously on top of the job
// queue: each request becomes a job record, waits for a worker and returns
// the finished job.
package operations

import (
	"context"
	"errors"

	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/services/jobs"
	"github.com/killallgit/studio-api/internal/services/workers"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"go.uber.org/zap"
)

// Submitter queues jobs for execution
type Submitter interface {
	Submit(job *models.Job) (<-chan workers.Outcome, error)
}

// SessionChecker confirms a session exists before any work is queued
type SessionChecker interface {
	SessionDir(sessionID string) (string, error)
}

// Service runs editing operations and waits for their outcome
type Service struct {
	sessions SessionChecker
	jobs     jobs.Service
	pool     Submitter
	log      *zap.Logger
}

// NewService creates an operations service
func NewService(sessions SessionChecker, jobService jobs.Service, pool Submitter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		sessions: sessions,
		jobs:     jobService,
		pool:     pool,
		log:      log.Named("operations"),
	}
}

// Run records a job for the session, queues it and blocks until it finishes
// or ctx is done. When ctx ends first the job keeps running and can be
// inspected through its id.
func (s *Service) Run(ctx context.Context, jobType models.JobType, sessionID string, payload models.JobPayload) (*models.Job, error) {
	if _, err := s.sessions.SessionDir(sessionID); err != nil {
		return nil, err
	}

	job, err := s.jobs.EnqueueJob(ctx, jobType, sessionID, payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to record job")
	}

	done, err := s.pool.Submit(job)
	if err != nil {
		reason := apperrors.Wrap(err, apperrors.ErrCodeServiceDown, "processing queue is unavailable")
		if errors.Is(err, workers.ErrQueueFull) {
			reason = apperrors.Wrap(err, apperrors.ErrCodeServiceDown, "processing queue is full, retry later")
		}
		if cerr := s.jobs.CancelJob(context.WithoutCancel(ctx), job.ID, reason); cerr != nil {
			s.log.Error("failed to cancel rejected job", zap.Uint("job_id", job.ID), zap.Error(cerr))
		}
		return nil, reason.WithDetail("job_id", job.ID)
	}

	select {
	case outcome := <-done:
		if outcome.Err != nil {
			return outcome.Job, classify(outcome.Err).WithDetail("job_id", job.ID)
		}
		return outcome.Job, nil
	case <-ctx.Done():
		s.log.Warn("stopped waiting for job",
			zap.Uint("job_id", job.ID),
			zap.String("session_id", sessionID),
			zap.Error(ctx.Err()))
		return job, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeTimeout, "operation did not finish in time").
			WithDetail("job_id", job.ID)
	}
}

func classify(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInternal, "operation failed")
}
