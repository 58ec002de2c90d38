package waveforms

import (
	"context"

	"github.com/killallgit/studio-api/pkg/ffmpeg"
)

// Service produces waveform peaks for files in a session
type Service interface {
	// GetWaveform returns peaks for filename in the session. An empty
	// filename selects the original upload; resolution <= 0 the default.
	GetWaveform(ctx context.Context, sessionID, filename string, resolution int) (*ffmpeg.WaveformData, error)
}

// Generator extracts peaks from an audio file
type Generator interface {
	GenerateWaveform(ctx context.Context, input string, options ffmpeg.WaveformOptions) (*ffmpeg.WaveformData, error)
}

// FileResolver maps session files to paths
type FileResolver interface {
	Resolve(sessionID, filename string) (string, error)
}

// OriginalLookup names the stored upload of a session
type OriginalLookup interface {
	OriginalName(ctx context.Context, sessionID string) (string, error)
}
