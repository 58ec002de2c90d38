// Package processing defines the editing operations applied to session audio
// and the ffmpeg-backed implementation of them.
package processing

import (
	"context"
	"fmt"
)

// EQBands are the centre frequencies, in Hz, of the studio equalizer
var EQBands = []float64{60, 150, 400, 1000, 2400, 6000, 10000, 14000}

const (
	// MinEQGain and MaxEQGain bound each equalizer band, in dB
	MinEQGain = -20
	MaxEQGain = 20

	// DefaultCrossfade is the fade length the editor uses when none is given
	DefaultCrossfade = 0.05
)

// TrimParams selects [Start, End) of the input, faded by Crossfade at both edges
type TrimParams struct {
	Start     float64
	End       float64
	Crossfade float64
}

// Backend renders edits of an input file into output files. Inputs and
// outputs are plain paths; the caller owns where they live.
type Backend interface {
	Trim(ctx context.Context, input, output string, params TrimParams) error
	// Split writes len(points)+1 outputs, one per interval between points
	Split(ctx context.Context, input string, points []float64, outputs []string) error
	// Equalize applies one gain per entry of EQBands
	Equalize(ctx context.Context, input, output string, gains []int) error
	ExtractVocals(ctx context.Context, input, vocalsOutput, instrumentalOutput string) error
}

// TrimResultName is the artifact written by a trim
func TrimResultName(sessionID string) string {
	return fmt.Sprintf("trim_result_%s.mp3", sessionID)
}

// SegmentName is the artifact for the n-th split segment, counted from 1
func SegmentName(n int, sessionID string) string {
	return fmt.Sprintf("segment_%d_%s.mp3", n, sessionID)
}

// SegmentNames lists the artifacts of a split into count segments
func SegmentNames(count int, sessionID string) []string {
	names := make([]string, count)
	for i := range names {
		names[i] = SegmentName(i+1, sessionID)
	}
	return names
}

// EqualizedName is the artifact written by an equalize
func EqualizedName(sessionID string) string {
	return fmt.Sprintf("eq_result_%s.mp3", sessionID)
}

// VocalsName is the vocal stem written by a vocal extraction
func VocalsName(sessionID string) string {
	return fmt.Sprintf("vocals_%s.mp3", sessionID)
}

// InstrumentalName is the backing stem written by a vocal extraction
func InstrumentalName(sessionID string) string {
	return fmt.Sprintf("instrumental_%s.mp3", sessionID)
}
