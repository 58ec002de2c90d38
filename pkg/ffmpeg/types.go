package ffmpeg

// AudioMetadata represents metadata extracted from an audio file
type AudioMetadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Sample rate in Hz
	Channels   int     `json:"channels"`
	Bitrate    int     `json:"bitrate"` // Bits per second
	Format     string  `json:"format"`  // Container format (mp3, wav, etc.)
	Codec      string  `json:"codec"`
	Size       int64   `json:"size"`
	Title      string  `json:"title,omitempty"`
	Artist     string  `json:"artist,omitempty"`
}

// WaveformData represents audio waveform peak data
type WaveformData struct {
	Peaks      []float32 `json:"peaks"`    // Peak values (0.0 - 1.0)
	Duration   float64   `json:"duration"` // Duration in seconds
	Resolution int       `json:"resolution"`
	SampleRate int       `json:"sample_rate"` // Original sample rate
}

// WaveformOptions defines options for waveform extraction
type WaveformOptions struct {
	Resolution int
	// TempDir holds the intermediate PCM file; empty means os.TempDir()
	TempDir string
}

// EncodeOptions controls the encoder used for every rendered artifact
type EncodeOptions struct {
	Codec   string // ffmpeg audio encoder, e.g. libmp3lame
	Bitrate string // e.g. 192k
}

// DefaultEncodeOptions renders mp3 at 192 kbit/s
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Codec:   "libmp3lame",
		Bitrate: "192k",
	}
}

func (o EncodeOptions) args() []string {
	codec := o.Codec
	if codec == "" {
		codec = "libmp3lame"
	}
	args := []string{"-vn", "-map_metadata", "-1", "-codec:a", codec}
	if o.Bitrate != "" {
		args = append(args, "-b:a", o.Bitrate)
	}
	return args
}
