package sessions

import (
	"context"
	"testing"

	"github.com/killallgit/studio-api/internal/database"
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/sessionstore"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) Service {
	t.Helper()
	db, err := database.InitializeWithMigrations(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewRepository(db.DB), nil)
}

func TestRegisterUploadAndGet(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	stored := &sessionstore.Session{
		ID:               "0b6e3f9c-5a53-4c0e-9d3b-2f1f3a0e6c11",
		OriginalFilename: "clip.wav",
		StoredName:       "original.wav",
		Size:             1234,
	}
	meta := &ffmpeg.AudioMetadata{Duration: 5, SampleRate: 44100, Channels: 2, Format: "wav", Codec: "pcm_s16le"}

	record, err := svc.RegisterUpload(ctx, stored, "audio/wav", meta)
	require.NoError(t, err)
	assert.True(t, record.HasProbe())

	got, err := svc.GetSession(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip.wav", got.OriginalFilename)
	assert.Equal(t, 44100, got.SampleRate)
	require.Len(t, got.Artifacts, 1)
	assert.Equal(t, "original.wav", got.Artifacts[0].Filename)
	assert.Equal(t, models.ArtifactKindOriginal, got.Artifacts[0].Kind)

	name, err := svc.OriginalName(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "original.wav", name)

	count, err := svc.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterUploadWithoutProbe(t *testing.T) {
	svc := setupService(t)

	record, err := svc.RegisterUpload(context.Background(), &sessionstore.Session{
		ID: "s1", OriginalFilename: "noise.bin", StoredName: "original.bin", Size: 3,
	}, "", nil)
	require.NoError(t, err)
	assert.False(t, record.HasProbe())
}

func TestGetUnknownSession(t *testing.T) {
	svc := setupService(t)

	_, err := svc.GetSession(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	_, err = svc.OriginalName(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestRecordArtifactUpserts(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.RegisterUpload(ctx, &sessionstore.Session{ID: "s1", StoredName: "original.mp3", Size: 10}, "audio/mpeg", nil)
	require.NoError(t, err)

	jobA, jobB := uint(1), uint(2)
	require.NoError(t, svc.RecordArtifact(ctx, &models.Artifact{
		SessionUUID: "s1", Filename: "trim_result_s1.mp3", Kind: models.ArtifactKindTrim, Size: 5, JobID: &jobA,
	}))
	// A second trim overwrites the same file
	require.NoError(t, svc.RecordArtifact(ctx, &models.Artifact{
		SessionUUID: "s1", Filename: "trim_result_s1.mp3", Kind: models.ArtifactKindTrim, Size: 7, JobID: &jobB,
	}))

	got, err := svc.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Artifacts, 2)
	assert.Equal(t, "original.mp3", got.Artifacts[0].Filename)
	assert.Equal(t, int64(7), got.Artifacts[1].Size)
	require.NotNil(t, got.Artifacts[1].JobID)
	assert.Equal(t, jobB, *got.Artifacts[1].JobID)
}
