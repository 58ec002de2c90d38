package processing

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"golang.org/x/sync/errgroup"
)

// renderer is the subset of *ffmpeg.FFmpeg the backend drives
type renderer interface {
	Trim(ctx context.Context, input, output string, start, end, fade float64, enc ffmpeg.EncodeOptions) error
	Cut(ctx context.Context, input, output string, start, end float64, enc ffmpeg.EncodeOptions) error
	ApplyFilter(ctx context.Context, operation, input, output, filter string, enc ffmpeg.EncodeOptions) error
}

// FFmpegBackend implements Backend by shelling out to ffmpeg
type FFmpegBackend struct {
	ff               renderer
	enc              ffmpeg.EncodeOptions
	splitConcurrency int
}

// NewFFmpegBackend creates a backend. splitConcurrency bounds how many
// segments of one split are encoded at once.
func NewFFmpegBackend(ff *ffmpeg.FFmpeg, enc ffmpeg.EncodeOptions, splitConcurrency int) *FFmpegBackend {
	return newFFmpegBackend(ff, enc, splitConcurrency)
}

func newFFmpegBackend(ff renderer, enc ffmpeg.EncodeOptions, splitConcurrency int) *FFmpegBackend {
	if splitConcurrency <= 0 {
		splitConcurrency = 1
	}
	return &FFmpegBackend{ff: ff, enc: enc, splitConcurrency: splitConcurrency}
}

func (b *FFmpegBackend) Trim(ctx context.Context, input, output string, params TrimParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	err := b.ff.Trim(ctx, input, output, params.Start, params.End, params.Crossfade, b.enc)
	return TranslateError("trim", err)
}

func (b *FFmpegBackend) Split(ctx context.Context, input string, points []float64, outputs []string) error {
	if len(outputs) != len(points)+1 {
		return apperrors.Newf(apperrors.ErrCodeInternal,
			"split needs %d outputs for %d points, got %d", len(points)+1, len(points), len(outputs))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.splitConcurrency)

	for i, output := range outputs {
		start := 0.0
		if i > 0 {
			start = points[i-1]
		}
		end := 0.0 // to the end of the input
		if i < len(points) {
			end = points[i]
		}

		output := output
		g.Go(func() error {
			return b.ff.Cut(gctx, input, output, start, end, b.enc)
		})
	}

	return TranslateError("split", g.Wait())
}

func (b *FFmpegBackend) Equalize(ctx context.Context, input, output string, gains []int) error {
	if len(gains) != len(EQBands) {
		return apperrors.InvalidRequest("eq_values", fmt.Sprintf("expected %d values, got %d", len(EQBands), len(gains)))
	}

	bands := make([]ffmpeg.EQBand, len(gains))
	for i, g := range gains {
		bands[i] = ffmpeg.EQBand{Frequency: EQBands[i], Gain: float64(g)}
	}

	err := b.ff.ApplyFilter(ctx, "equalize", input, output, ffmpeg.EqualizerFilter(bands), b.enc)
	return TranslateError("equalize", err)
}

func (b *FFmpegBackend) ExtractVocals(ctx context.Context, input, vocalsOutput, instrumentalOutput string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.splitConcurrency)

	g.Go(func() error {
		return b.ff.ApplyFilter(gctx, "extract_vocals", input, vocalsOutput, ffmpeg.VocalsFilter, b.enc)
	})
	g.Go(func() error {
		return b.ff.ApplyFilter(gctx, "extract_instrumental", input, instrumentalOutput, ffmpeg.InstrumentalFilter, b.enc)
	})

	return TranslateError("extract_vocals", g.Wait())
}

// TranslateError maps ffmpeg failures onto the service error kinds. AppErrors
// pass through unchanged.
func TranslateError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}

	var procErr *ffmpeg.ProcessingError
	stderr := ""
	if errors.As(err, &procErr) {
		stderr = procErr.Stderr
	}

	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, ffmpeg.ErrInvalidRange):
		appErr = apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid time range")
	case errors.Is(err, ffmpeg.ErrProcessingTimeout), errors.Is(err, context.DeadlineExceeded):
		appErr = apperrors.Wrap(err, apperrors.ErrCodeTimeout, fmt.Sprintf("%s timed out", operation))
	case errors.Is(err, ffmpeg.ErrFFmpegNotFound):
		appErr = apperrors.Wrap(err, apperrors.ErrCodeServiceDown, "audio processor is not available")
	case errors.Is(err, context.Canceled):
		appErr = apperrors.Wrap(err, apperrors.ErrCodeServiceDown, fmt.Sprintf("%s was cancelled", operation))
	default:
		appErr = apperrors.Wrap(err, apperrors.ErrCodeProcessing, fmt.Sprintf("%s failed", operation))
	}

	appErr = appErr.WithDetail("operation", operation)
	if stderr != "" {
		appErr = appErr.WithDetail("stderr", stderr)
	}
	return appErr
}
