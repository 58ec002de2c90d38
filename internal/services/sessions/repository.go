package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/studio-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessionNotFound is returned when no record exists for a session id
var ErrSessionNotFound = errors.New("session not found")

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new session repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

func (r *repository) GetSessionByUUID(ctx context.Context, uuid string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Artifacts", func(db *gorm.DB) *gorm.DB {
			return db.Order("filename ASC")
		}).
		Where("uuid = ?", uuid).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &session, nil
}

// UpsertArtifact inserts the artifact or, when the session already has a file
// of that name (a repeated operation overwrote it), refreshes its record
func (r *repository) UpsertArtifact(ctx context.Context, artifact *models.Artifact) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_uuid"}, {Name: "filename"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "size", "job_id", "updated_at"}),
		}).
		Create(artifact).Error
	if err != nil {
		return fmt.Errorf("recording artifact: %w", err)
	}
	return nil
}

func (r *repository) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Session{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return count, nil
}
