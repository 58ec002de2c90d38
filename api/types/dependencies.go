package types

import (
	"context"

	"github.com/killallgit/studio-api/internal/database"
	"github.com/killallgit/studio-api/internal/metrics"
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/services/jobs"
	"github.com/killallgit/studio-api/internal/services/sessions"
	"github.com/killallgit/studio-api/internal/services/waveforms"
	"github.com/killallgit/studio-api/internal/sessionstore"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
)

// OperationRunner runs an editing job and waits for it
type OperationRunner interface {
	Run(ctx context.Context, jobType models.JobType, sessionID string, payload models.JobPayload) (*models.Job, error)
}

// Prober reads audio metadata of an uploaded file
type Prober interface {
	GetMetadata(ctx context.Context, filePath string) (*ffmpeg.AudioMetadata, error)
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB         *database.DB
	Store      *sessionstore.Store
	Sessions   sessions.Service
	Jobs       jobs.Service
	Operations OperationRunner
	Waveforms  waveforms.Service
	// Prober is optional; uploads are accepted unprobed without it
	Prober  Prober
	Metrics *metrics.Metrics

	MaxUploadSize int64
	Build         BuildInfo
}
