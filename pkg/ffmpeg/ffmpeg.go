package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
	log         *zap.Logger
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
		log:         zap.L().Named("ffmpeg"),
	}
}

// WithLogger sets the logger used for command tracing
func (f *FFmpeg) WithLogger(log *zap.Logger) *FFmpeg {
	if log != nil {
		f.log = log.Named("ffmpeg")
	}
	return f
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}

	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}

	return nil
}

// run executes ffmpeg with the configured timeout. Failures carry stderr.
func (f *FFmpeg) run(ctx context.Context, operation, input string, args []string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	full := append([]string{"-hide_banner", "-nostdin", "-loglevel", "error"}, args...)
	cmd := exec.CommandContext(ctx, f.ffmpegPath, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	started := time.Now()
	f.log.Debug("running ffmpeg",
		zap.String("operation", operation),
		zap.String("args", strings.Join(full, " ")))

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewProcessingError(operation, input, ErrProcessingTimeout, stderr.String())
		}
		if errors.Is(err, exec.ErrNotFound) {
			return NewProcessingError(operation, input, fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath), "")
		}
		return NewProcessingError(operation, input, err, strings.TrimSpace(stderr.String()))
	}

	f.log.Debug("ffmpeg finished",
		zap.String("operation", operation),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}
