package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// EQBand is a single peaking equalizer band
type EQBand struct {
	Frequency float64 // centre frequency in Hz
	Gain      float64 // dB
}

const (
	// VocalsFilter keeps the centre of the stereo image and narrows it to the
	// voice band. Mono input is upmixed first so c1 exists.
	VocalsFilter = "aformat=channel_layouts=stereo,pan=mono|c0=0.5*c0+0.5*c1,highpass=f=300,lowpass=f=3400"
	// InstrumentalFilter cancels whatever is identical in both channels
	InstrumentalFilter = "aformat=channel_layouts=stereo,pan=stereo|c0=c0-c1|c1=c1-c0"
)

// Trim renders [start, end) of input to output with a fade of fade seconds at
// both edges. A zero fade renders a hard cut.
func (f *FFmpeg) Trim(ctx context.Context, input, output string, start, end, fade float64, enc EncodeOptions) error {
	if start < 0 || end <= start {
		return NewProcessingError("trim", input,
			fmt.Errorf("%w: start %.3f, end %.3f", ErrInvalidRange, start, end), "")
	}

	args := []string{"-ss", formatSeconds(start), "-to", formatSeconds(end), "-i", input}
	if filter := FadeFilter(end-start, fade); filter != "" {
		args = append(args, "-af", filter)
	}
	args = append(args, enc.args()...)
	args = append(args, "-y", output)

	return f.run(ctx, "trim", input, args)
}

// Cut renders input from start to end without fades. end <= 0 means to the end
// of the input.
func (f *FFmpeg) Cut(ctx context.Context, input, output string, start, end float64, enc EncodeOptions) error {
	if start < 0 || (end > 0 && end <= start) {
		return NewProcessingError("cut", input,
			fmt.Errorf("%w: start %.3f, end %.3f", ErrInvalidRange, start, end), "")
	}

	args := []string{"-ss", formatSeconds(start)}
	if end > 0 {
		args = append(args, "-to", formatSeconds(end))
	}
	args = append(args, "-i", input)
	args = append(args, enc.args()...)
	args = append(args, "-y", output)

	return f.run(ctx, "cut", input, args)
}

// ApplyFilter renders input through an audio filter graph
func (f *FFmpeg) ApplyFilter(ctx context.Context, operation, input, output, filter string, enc EncodeOptions) error {
	args := []string{"-i", input, "-af", filter}
	args = append(args, enc.args()...)
	args = append(args, "-y", output)

	return f.run(ctx, operation, input, args)
}

// FadeFilter returns an afade in/out chain for a clip of the given length.
// The fade is capped at half the clip so the two ramps never overlap.
func FadeFilter(length, fade float64) string {
	if fade <= 0 || length <= 0 {
		return ""
	}
	if fade > length/2 {
		fade = length / 2
	}
	return fmt.Sprintf("afade=t=in:st=0:d=%s,afade=t=out:st=%s:d=%s",
		formatSeconds(fade), formatSeconds(length-fade), formatSeconds(fade))
}

// EqualizerFilter chains one peaking equalizer per band
func EqualizerFilter(bands []EQBand) string {
	parts := make([]string, 0, len(bands))
	for _, b := range bands {
		parts = append(parts, fmt.Sprintf("equalizer=f=%s:t=q:w=1:g=%s",
			strconv.FormatFloat(b.Frequency, 'f', -1, 64),
			strconv.FormatFloat(b.Gain, 'f', -1, 64)))
	}
	return strings.Join(parts, ",")
}

// formatSeconds keeps full precision; rounding could collapse short windows
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
