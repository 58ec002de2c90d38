package ffmpeg

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
)

// GenerateWaveform extracts normalized peak data from a local audio file
func (f *FFmpeg) GenerateWaveform(ctx context.Context, input string, options WaveformOptions) (*WaveformData, error) {
	metadata, err := f.GetMetadata(ctx, input)
	if err != nil {
		return nil, err
	}

	resolution := options.Resolution
	if resolution <= 0 {
		resolution = 1000
	}

	peaks, err := f.extractWaveformPeaks(ctx, input, resolution, options.TempDir)
	if err != nil {
		return nil, err
	}

	return &WaveformData{
		Peaks:      peaks,
		Duration:   metadata.Duration,
		Resolution: len(peaks),
		SampleRate: metadata.SampleRate,
	}, nil
}

// extractWaveformPeaks decodes to mono 32-bit float PCM and reduces it to peaks
func (f *FFmpeg) extractWaveformPeaks(ctx context.Context, input string, resolution int, tempDir string) ([]float32, error) {
	rawFile, err := os.CreateTemp(tempDir, "waveform_*.raw")
	if err != nil {
		return nil, NewProcessingError("temp_file_creation", input, err, "")
	}
	rawPath := rawFile.Name()
	rawFile.Close()
	defer os.Remove(rawPath)

	args := []string{
		"-i", input,
		"-f", "f32le",
		"-ac", "1",
		"-ar", "44100",
		"-y",
		rawPath,
	}
	if err := f.run(ctx, "pcm_conversion", input, args); err != nil {
		return nil, err
	}

	file, err := os.Open(rawPath)
	if err != nil {
		return nil, NewProcessingError("pcm_read", input, err, "")
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, NewProcessingError("pcm_read", input, err, "")
	}

	peaks, err := PeaksFromPCM(bufio.NewReader(file), stat.Size()/4, resolution)
	if err != nil {
		return nil, NewProcessingError("pcm_read", input, err, "")
	}
	return peaks, nil
}

// PeaksFromPCM reduces little-endian float32 samples to at most resolution
// absolute peaks, normalized so the loudest peak is 1. Silence stays at 0.
func PeaksFromPCM(r io.Reader, totalSamples int64, resolution int) ([]float32, error) {
	if totalSamples <= 0 || resolution <= 0 {
		return []float32{}, nil
	}

	samplesPerPeak := totalSamples / int64(resolution)
	if samplesPerPeak < 1 {
		samplesPerPeak = 1
	}

	peaks := make([]float32, 0, resolution)
	buf := make([]byte, 4*samplesPerPeak)
	var globalMax float32

	for len(peaks) < resolution {
		n, err := io.ReadFull(r, buf)
		if n >= 4 {
			var peak float32
			for j := 0; j+4 <= n; j += 4 {
				sample := math.Float32frombits(binary.LittleEndian.Uint32(buf[j : j+4]))
				if a := abs(sample); a > peak {
					peak = a
				}
			}
			peaks = append(peaks, peak)
			if peak > globalMax {
				globalMax = peak
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if globalMax > 0 {
		for i := range peaks {
			peaks[i] /= globalMax
		}
	}
	return peaks, nil
}

// abs returns the absolute value of a float32
func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
