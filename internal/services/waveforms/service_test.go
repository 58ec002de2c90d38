package waveforms

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/killallgit/studio-api/internal/services/cache"
	"github.com/killallgit/studio-api/internal/sessionstore"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateWaveform(ctx context.Context, input string, options ffmpeg.WaveformOptions) (*ffmpeg.WaveformData, error) {
	args := m.Called(input, options.Resolution)
	if data := args.Get(0); data != nil {
		return data.(*ffmpeg.WaveformData), args.Error(1)
	}
	return nil, args.Error(1)
}

type staticOriginals map[string]string

func (s staticOriginals) OriginalName(ctx context.Context, sessionID string) (string, error) {
	name, ok := s[sessionID]
	if !ok {
		return "", apperrors.NotFound("session", sessionID)
	}
	return name, nil
}

type fixture struct {
	svc       Service
	gen       *mockGenerator
	store     *sessionstore.Store
	sessionID string
	original  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sessionstore.New(sessionstore.Config{Parent: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(store.Teardown)

	session, err := store.Create(context.Background(), strings.NewReader("pcm"), "take.wav")
	require.NoError(t, err)

	gen := &mockGenerator{}
	svc := NewService(store, staticOriginals{session.ID: session.StoredName}, gen,
		cache.NewMemoryCache(1, time.Minute), Config{DefaultResolution: 4}, nil)

	return &fixture{svc: svc, gen: gen, store: store, sessionID: session.ID, original: session.FilePath}
}

func TestGetWaveformDefaultsToOriginal(t *testing.T) {
	f := newFixture(t)
	peaks := &ffmpeg.WaveformData{Peaks: []float32{0.1, 1, 0.5, 0}, Duration: 2, Resolution: 4, SampleRate: 44100}
	f.gen.On("GenerateWaveform", f.original, 4).Return(peaks, nil).Once()

	got, err := f.svc.GetWaveform(context.Background(), f.sessionID, "", 0)
	require.NoError(t, err)
	assert.Equal(t, peaks.Peaks, got.Peaks)

	// Served from the cache the second time
	again, err := f.svc.GetWaveform(context.Background(), f.sessionID, "original.wav", 4)
	require.NoError(t, err)
	assert.Equal(t, peaks, again)

	f.gen.AssertExpectations(t)
}

func TestGetWaveformRegeneratesAfterOverwrite(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.WriteArtifact(context.Background(), f.sessionID, "trim_result.mp3", strings.NewReader("v1"))
	require.NoError(t, err)
	path, err := f.store.Resolve(f.sessionID, "trim_result.mp3")
	require.NoError(t, err)

	f.gen.On("GenerateWaveform", path, 4).Return(&ffmpeg.WaveformData{Peaks: []float32{1}}, nil).Twice()

	_, err = f.svc.GetWaveform(context.Background(), f.sessionID, "trim_result.mp3", 0)
	require.NoError(t, err)

	_, err = f.store.WriteArtifact(context.Background(), f.sessionID, "trim_result.mp3", strings.NewReader("second version"))
	require.NoError(t, err)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	_, err = f.svc.GetWaveform(context.Background(), f.sessionID, "trim_result.mp3", 0)
	require.NoError(t, err)

	f.gen.AssertExpectations(t)
}

func TestGetWaveformErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		sessionID  string
		filename   string
		resolution int
		code       apperrors.ErrorCode
	}{
		{"resolution too large", f.sessionID, "", MaxResolution + 1, apperrors.ErrCodeInvalidInput},
		{"unknown session", "0f8fad5b-d9cb-469f-a165-70867728950e", "", 0, apperrors.ErrCodeNotFound},
		{"missing file", f.sessionID, "missing.mp3", 0, apperrors.ErrCodeNotFound},
		{"traversal", f.sessionID, "../original.wav", 0, apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GetWaveform(context.Background(), tt.sessionID, tt.filename, tt.resolution)
			assert.True(t, apperrors.Is(err, tt.code), "got %v", err)
		})
	}
	f.gen.AssertNotCalled(t, "GenerateWaveform", mock.Anything, mock.Anything)
}

func TestGetWaveformTranslatesDecoderFailures(t *testing.T) {
	f := newFixture(t)
	f.gen.On("GenerateWaveform", f.original, 4).
		Return(nil, ffmpeg.NewProcessingError("metadata", f.original, ffmpeg.ErrInvalidAudioFile, "")).Once()

	_, err := f.svc.GetWaveform(context.Background(), f.sessionID, "", 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeProcessing))
}
