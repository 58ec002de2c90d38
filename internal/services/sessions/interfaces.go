package sessions

import (
	"context"

	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/sessionstore"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
)

// Service keeps the bookkeeping records of sessions and their artifacts
type Service interface {
	// RegisterUpload records a freshly created session. metadata may be nil.
	RegisterUpload(ctx context.Context, session *sessionstore.Session, contentType string, metadata *ffmpeg.AudioMetadata) (*models.Session, error)

	// GetSession returns the session with its artifacts
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// OriginalName returns the stored name of the session's upload
	OriginalName(ctx context.Context, sessionID string) (string, error)

	// RecordArtifact creates or refreshes the record of a file in a session
	RecordArtifact(ctx context.Context, artifact *models.Artifact) error

	// CountSessions returns the number of recorded sessions
	CountSessions(ctx context.Context) (int64, error)
}

// Repository defines the interface for session persistence
type Repository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByUUID(ctx context.Context, uuid string) (*models.Session, error)
	UpsertArtifact(ctx context.Context, artifact *models.Artifact) error
	CountSessions(ctx context.Context) (int64, error)
}
