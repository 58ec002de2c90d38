package sessions

import (
	"context"
	"errors"

	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/sessionstore"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"go.uber.org/zap"
)

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new session bookkeeping service
func NewService(repo Repository, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{repo: repo, log: log.Named("sessions")}
}

func (s *service) RegisterUpload(ctx context.Context, session *sessionstore.Session, contentType string, metadata *ffmpeg.AudioMetadata) (*models.Session, error) {
	record := &models.Session{
		UUID:             session.ID,
		OriginalFilename: session.OriginalFilename,
		StoredName:       session.StoredName,
		ContentType:      contentType,
		Size:             session.Size,
	}
	if metadata != nil {
		record.Duration = metadata.Duration
		record.SampleRate = metadata.SampleRate
		record.Channels = metadata.Channels
		record.Format = metadata.Format
		record.Codec = metadata.Codec
	}

	if err := s.repo.CreateSession(ctx, record); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to record session")
	}

	if err := s.repo.UpsertArtifact(ctx, &models.Artifact{
		SessionUUID: session.ID,
		Filename:    session.StoredName,
		Kind:        models.ArtifactKindOriginal,
		Size:        session.Size,
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to record upload")
	}

	s.log.Debug("session recorded",
		zap.String("session_id", session.ID),
		zap.Bool("probed", record.HasProbe()))

	return record, nil
}

func (s *service) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.repo.GetSessionByUUID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperrors.NotFound("session", sessionID)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to load session")
	}
	return session, nil
}

func (s *service) OriginalName(ctx context.Context, sessionID string) (string, error) {
	session, err := s.repo.GetSessionByUUID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", apperrors.NotFound("session", sessionID)
		}
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to load session")
	}
	return session.StoredName, nil
}

func (s *service) RecordArtifact(ctx context.Context, artifact *models.Artifact) error {
	if err := s.repo.UpsertArtifact(ctx, artifact); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to record artifact")
	}
	return nil
}

func (s *service) CountSessions(ctx context.Context) (int64, error) {
	return s.repo.CountSessions(ctx)
}
