package processing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Trim(ctx context.Context, input, output string, start, end, fade float64, enc ffmpeg.EncodeOptions) error {
	args := m.Called(input, output, start, end, fade)
	return args.Error(0)
}

func (m *mockRenderer) Cut(ctx context.Context, input, output string, start, end float64, enc ffmpeg.EncodeOptions) error {
	args := m.Called(input, output, start, end)
	return args.Error(0)
}

func (m *mockRenderer) ApplyFilter(ctx context.Context, operation, input, output, filter string, enc ffmpeg.EncodeOptions) error {
	args := m.Called(operation, input, output, filter)
	return args.Error(0)
}

func TestFFmpegBackendTrim(t *testing.T) {
	r := new(mockRenderer)
	b := newFFmpegBackend(r, ffmpeg.DefaultEncodeOptions(), 2)

	r.On("Trim", "in.wav", "out.mp3", 1.0, 3.0, 0.05).Return(nil).Once()
	require.NoError(t, b.Trim(context.Background(), "in.wav", "out.mp3", TrimParams{Start: 1, End: 3, Crossfade: 0.05}))

	err := b.Trim(context.Background(), "in.wav", "out.mp3", TrimParams{Start: 3, End: 1})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))

	r.AssertExpectations(t)
}

func TestFFmpegBackendSplitIntervals(t *testing.T) {
	r := new(mockRenderer)
	b := newFFmpegBackend(r, ffmpeg.DefaultEncodeOptions(), 2)

	r.On("Cut", "in.wav", "s1.mp3", 0.0, 1.5).Return(nil).Once()
	r.On("Cut", "in.wav", "s2.mp3", 1.5, 4.2).Return(nil).Once()
	r.On("Cut", "in.wav", "s3.mp3", 4.2, 0.0).Return(nil).Once()

	err := b.Split(context.Background(), "in.wav", []float64{1.5, 4.2}, []string{"s1.mp3", "s2.mp3", "s3.mp3"})
	require.NoError(t, err)
	r.AssertExpectations(t)

	err = b.Split(context.Background(), "in.wav", []float64{1.5}, []string{"s1.mp3"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInternal))
}

type countingRenderer struct {
	mockRenderer
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (c *countingRenderer) Cut(ctx context.Context, input, output string, start, end float64, enc ffmpeg.EncodeOptions) error {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		prev := c.maxSeen.Load()
		if n <= prev || c.maxSeen.CompareAndSwap(prev, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

func TestFFmpegBackendSplitIsBounded(t *testing.T) {
	r := &countingRenderer{}
	b := newFFmpegBackend(r, ffmpeg.DefaultEncodeOptions(), 2)

	points := []float64{1, 2, 3, 4, 5, 6}
	err := b.Split(context.Background(), "in.wav", points, SegmentNames(len(points)+1, "s"))
	require.NoError(t, err)
	assert.LessOrEqual(t, r.maxSeen.Load(), int32(2))
}

func TestFFmpegBackendEqualize(t *testing.T) {
	r := new(mockRenderer)
	b := newFFmpegBackend(r, ffmpeg.DefaultEncodeOptions(), 1)

	expected := "equalizer=f=60:t=q:w=1:g=-3,equalizer=f=150:t=q:w=1:g=0,equalizer=f=400:t=q:w=1:g=2," +
		"equalizer=f=1000:t=q:w=1:g=5,equalizer=f=2400:t=q:w=1:g=-1,equalizer=f=6000:t=q:w=1:g=0," +
		"equalizer=f=10000:t=q:w=1:g=3,equalizer=f=14000:t=q:w=1:g=-2"
	r.On("ApplyFilter", "equalize", "in.wav", "eq.mp3", expected).Return(nil).Once()

	require.NoError(t, b.Equalize(context.Background(), "in.wav", "eq.mp3", []int{-3, 0, 2, 5, -1, 0, 3, -2}))
	r.AssertExpectations(t)

	err := b.Equalize(context.Background(), "in.wav", "eq.mp3", []int{1, 2})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
}

func TestFFmpegBackendExtractVocals(t *testing.T) {
	r := new(mockRenderer)
	b := newFFmpegBackend(r, ffmpeg.DefaultEncodeOptions(), 2)

	r.On("ApplyFilter", "extract_vocals", "in.wav", "v.mp3", ffmpeg.VocalsFilter).Return(nil).Once()
	r.On("ApplyFilter", "extract_instrumental", "in.wav", "i.mp3", ffmpeg.InstrumentalFilter).Return(nil).Once()

	require.NoError(t, b.ExtractVocals(context.Background(), "in.wav", "v.mp3", "i.mp3"))
	r.AssertExpectations(t)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"ffmpeg failure", ffmpeg.NewProcessingError("trim", "in.wav", errors.New("exit status 1"), "Invalid data"), apperrors.ErrCodeProcessing},
		{"timeout", ffmpeg.NewProcessingError("trim", "in.wav", ffmpeg.ErrProcessingTimeout, ""), apperrors.ErrCodeTimeout},
		{"missing binary", ffmpeg.NewProcessingError("trim", "in.wav", ffmpeg.ErrFFmpegNotFound, ""), apperrors.ErrCodeServiceDown},
		{"invalid range", ffmpeg.NewProcessingError("cut", "in.wav", ffmpeg.ErrInvalidRange, ""), apperrors.ErrCodeInvalidInput},
		{"cancelled", context.Canceled, apperrors.ErrCodeServiceDown},
		{"already classified", apperrors.StorageError("stage", errors.New("x")), apperrors.ErrCodeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TranslateError("trim", tt.err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}

	assert.NoError(t, TranslateError("trim", nil))

	err := TranslateError("trim", ffmpeg.NewProcessingError("trim", "in.wav", errors.New("exit status 1"), "Invalid data"))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid data", appErr.Details["stderr"])
}
