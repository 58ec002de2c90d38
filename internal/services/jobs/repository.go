package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/studio-api/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrJobNotFound       = errors.New("job not found")
	ErrJobAlreadyClaimed = errors.New("job already claimed")
)

// Repository defines the interface for job persistence
type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) error

	GetJob(ctx context.Context, id uint) (*models.Job, error)
	GetJobsBySession(ctx context.Context, sessionID string, limit int) ([]*models.Job, error)

	ClaimJob(ctx context.Context, jobID uint, workerID string) (*models.Job, error)
	CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error
	FinishJob(ctx context.Context, jobID uint, status models.JobStatus, errorCode, errorMsg string) error

	DeleteOldJobs(ctx context.Context, olderThan time.Time) (int64, error)
}

// repository implements Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new job repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

// CreateJob creates a new job
func (r *repository) CreateJob(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetJob retrieves a job by ID
func (r *repository) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).First(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	return &job, nil
}

// GetJobsBySession retrieves the most recent jobs of a session
func (r *repository) GetJobsBySession(ctx context.Context, sessionID string, limit int) ([]*models.Job, error) {
	var jobs []*models.Job
	query := r.db.WithContext(ctx).
		Where("session_uuid = ?", sessionID).
		Order("created_at DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("getting jobs by session: %w", err)
	}
	return jobs, nil
}

// ClaimJob moves a pending job to processing for a worker. It fails with
// ErrJobAlreadyClaimed when the job is no longer pending.
func (r *repository) ClaimJob(ctx context.Context, jobID uint, workerID string) (*models.Job, error) {
	var job models.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, models.JobStatusPending).
			Updates(map[string]interface{}{
				"status":     models.JobStatusProcessing,
				"worker_id":  workerID,
				"started_at": &now,
			})
		if res.Error != nil {
			return fmt.Errorf("claiming job: %w", res.Error)
		}

		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return fmt.Errorf("reloading claimed job: %w", err)
		}

		if res.RowsAffected == 0 {
			return ErrJobAlreadyClaimed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// CompleteJob marks a job as completed with a result
func (r *repository) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       models.JobStatusCompleted,
		"completed_at": &now,
		"result":       result,
	}

	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", jobID).
		Updates(updates)

	if res.Error != nil {
		return fmt.Errorf("completing job: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// FinishJob moves a job to a terminal non-success status with error details
func (r *repository) FinishJob(ctx context.Context, jobID uint, status models.JobStatus, errorCode, errorMsg string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       status,
		"error":        errorMsg,
		"error_code":   errorCode,
		"completed_at": &now,
	}

	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", jobID).
		Updates(updates)

	if res.Error != nil {
		return fmt.Errorf("finishing job: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// DeleteOldJobs deletes finished jobs created before the given time
func (r *repository) DeleteOldJobs(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", olderThan).
		Where("status IN ?", []models.JobStatus{
			models.JobStatusCompleted,
			models.JobStatusFailed,
			models.JobStatusCancelled,
		}).
		Delete(&models.Job{})

	if result.Error != nil {
		return 0, fmt.Errorf("deleting old jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}
