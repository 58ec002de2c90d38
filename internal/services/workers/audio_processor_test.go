package workers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/killallgit/studio-api/internal/database"
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/processing/processingtest"
	"github.com/killallgit/studio-api/internal/services/sessions"
	"github.com/killallgit/studio-api/internal/sessionstore"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorFixture struct {
	store     *sessionstore.Store
	sessions  sessions.Service
	backend   *processingtest.Backend
	processor *AudioProcessor
	sessionID string
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()

	db, err := database.InitializeWithMigrations(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := sessionstore.New(sessionstore.Config{Parent: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(store.Teardown)

	sessionService := sessions.NewService(sessions.NewRepository(db.DB), nil)
	backend := &processingtest.Backend{}

	upload, err := store.Create(context.Background(), strings.NewReader("0123456789"), "clip.wav")
	require.NoError(t, err)
	_, err = sessionService.RegisterUpload(context.Background(), upload, "audio/wav", nil)
	require.NoError(t, err)

	return &processorFixture{
		store:     store,
		sessions:  sessionService,
		backend:   backend,
		processor: NewAudioProcessor(store, backend, sessionService, nil),
		sessionID: upload.ID,
	}
}

func (f *processorFixture) job(jobType models.JobType, payload models.JobPayload) *models.Job {
	job := &models.Job{Type: jobType, SessionUUID: f.sessionID, Payload: payload}
	job.ID = 7
	return job
}

func (f *processorFixture) read(t *testing.T, name string) string {
	t.Helper()
	path, err := f.store.Resolve(f.sessionID, name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestAudioProcessorCanProcess(t *testing.T) {
	p := NewAudioProcessor(nil, nil, nil, nil)

	tests := []struct {
		jobType  models.JobType
		expected bool
	}{
		{models.JobTypeTrim, true},
		{models.JobTypeSplit, true},
		{models.JobTypeEqualize, true},
		{models.JobTypeExtractVocals, true},
		{models.JobType("transcribe"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.jobType), func(t *testing.T) {
			assert.Equal(t, tt.expected, p.CanProcess(tt.jobType))
		})
	}
}

func TestAudioProcessorTrim(t *testing.T) {
	f := newProcessorFixture(t)
	job := f.job(models.JobTypeTrim, models.JobPayload{"start_time": 1.0, "end_time": 3.5, "crossfade": 0.1})

	require.NoError(t, f.processor.ProcessJob(context.Background(), job))

	name := "trim_result_" + f.sessionID + ".mp3"
	assert.Equal(t, name, job.Result["output_file"])
	assert.Equal(t, "trim:10", f.read(t, name))

	calls := f.backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "original.wav", filepath.Base(calls[0].Input))

	record, err := f.sessions.GetSession(context.Background(), f.sessionID)
	require.NoError(t, err)
	var trim *models.Artifact
	for i := range record.Artifacts {
		if record.Artifacts[i].Filename == name {
			trim = &record.Artifacts[i]
		}
	}
	require.NotNil(t, trim)
	assert.Equal(t, models.ArtifactKindTrim, trim.Kind)
	assert.Equal(t, int64(len("trim:10")), trim.Size)
	require.NotNil(t, trim.JobID)
	assert.Equal(t, uint(7), *trim.JobID)
}

func TestAudioProcessorSplit(t *testing.T) {
	f := newProcessorFixture(t)
	job := f.job(models.JobTypeSplit, models.JobPayload{"split_points": []float64{1.5, 4.2}})

	require.NoError(t, f.processor.ProcessJob(context.Background(), job))

	names, ok := job.Result["output_files"].([]string)
	require.True(t, ok)
	require.Len(t, names, 3)
	for i, name := range names {
		assert.Equal(t, fmt.Sprintf("segment_%d_%s.mp3", i+1, f.sessionID), name)
		assert.Equal(t, "split:10", f.read(t, name))
	}
}

func TestAudioProcessorEqualizeAndVocals(t *testing.T) {
	f := newProcessorFixture(t)

	eq := f.job(models.JobTypeEqualize, models.JobPayload{"eq_values": []int{0, 1, 2, 3, -3, -2, -1, 0}})
	require.NoError(t, f.processor.ProcessJob(context.Background(), eq))
	assert.Equal(t, "equalize:10", f.read(t, "eq_result_"+f.sessionID+".mp3"))

	vocals := f.job(models.JobTypeExtractVocals, nil)
	require.NoError(t, f.processor.ProcessJob(context.Background(), vocals))
	assert.Equal(t, "vocals_"+f.sessionID+".mp3", vocals.Result["vocals_file"])
	assert.Equal(t, "instrumental_"+f.sessionID+".mp3", vocals.Result["instrumental_file"])
	assert.Equal(t, "extract_vocals:10", f.read(t, "vocals_"+f.sessionID+".mp3"))
	assert.Equal(t, "extract_vocals:10", f.read(t, "instrumental_"+f.sessionID+".mp3"))
}

func TestAudioProcessorInvalidPayload(t *testing.T) {
	f := newProcessorFixture(t)

	tests := []struct {
		name string
		job  *models.Job
		code apperrors.ErrorCode
	}{
		{"trim without start", f.job(models.JobTypeTrim, models.JobPayload{"end_time": 2.0}), apperrors.ErrCodeMissingField},
		{"trim inverted window", f.job(models.JobTypeTrim, models.JobPayload{"start_time": 3.0, "end_time": 2.0}), apperrors.ErrCodeInvalidInput},
		{"split without points", f.job(models.JobTypeSplit, models.JobPayload{}), apperrors.ErrCodeMissingField},
		{"equalize without values", f.job(models.JobTypeEqualize, models.JobPayload{}), apperrors.ErrCodeMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.processor.ProcessJob(context.Background(), tt.job)
			assert.True(t, apperrors.Is(err, tt.code), "got %v", err)
		})
	}
	assert.Empty(t, f.backend.Calls())
}

func TestAudioProcessorFailureLeavesNoArtifacts(t *testing.T) {
	f := newProcessorFixture(t)
	f.backend.Err = errors.New("render failed")

	job := f.job(models.JobTypeExtractVocals, nil)
	require.Error(t, f.processor.ProcessJob(context.Background(), job))

	artifacts, err := f.store.List(f.sessionID)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "original.wav", artifacts[0].Name)

	entries, err := os.ReadDir(filepath.Dir(f.mustOriginal(t)))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged files must be discarded")
}

func (f *processorFixture) mustOriginal(t *testing.T) string {
	t.Helper()
	path, err := f.store.Resolve(f.sessionID, "original.wav")
	require.NoError(t, err)
	return path
}

func TestAudioProcessorUnknownSession(t *testing.T) {
	f := newProcessorFixture(t)

	job := f.job(models.JobTypeExtractVocals, nil)
	job.SessionUUID = "5d0c8f2e-0000-4000-8000-000000000000"

	err := f.processor.ProcessJob(context.Background(), job)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}
