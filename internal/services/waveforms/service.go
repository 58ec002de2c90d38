package waveforms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/killallgit/studio-api/internal/processing"
	"github.com/killallgit/studio-api/internal/services/cache"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"go.uber.org/zap"
)

// Config configures the waveform service
type Config struct {
	DefaultResolution int
}

type service struct {
	files     FileResolver
	originals OriginalLookup
	generator Generator
	cache     cache.Cache
	cfg       Config
	log       *zap.Logger
}

// NewService creates a waveform service. cache may be nil.
func NewService(files FileResolver, originals OriginalLookup, generator Generator, c cache.Cache, cfg Config, log *zap.Logger) Service {
	if cfg.DefaultResolution <= 0 {
		cfg.DefaultResolution = 1000
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		files:     files,
		originals: originals,
		generator: generator,
		cache:     c,
		cfg:       cfg,
		log:       log.Named("waveforms"),
	}
}

func (s *service) GetWaveform(ctx context.Context, sessionID, filename string, resolution int) (*ffmpeg.WaveformData, error) {
	if resolution <= 0 {
		resolution = s.cfg.DefaultResolution
	}
	if resolution < MinResolution || resolution > MaxResolution {
		return nil, apperrors.InvalidRequest("resolution",
			fmt.Sprintf("must be between %d and %d", MinResolution, MaxResolution))
	}

	if filename == "" {
		name, err := s.originals.OriginalName(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		filename = name
	}

	path, err := s.files.Resolve(sessionID, filename)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NotFound("file", filename)
	}
	// Artifacts are overwritten in place, so the key carries the file version
	key := fmt.Sprintf("%s/%s/%d/%d/%d", sessionID, filename, resolution, info.Size(), info.ModTime().UnixNano())

	if data, ok := s.cached(ctx, key); ok {
		return data, nil
	}

	data, err := s.generator.GenerateWaveform(ctx, path, ffmpeg.WaveformOptions{Resolution: resolution})
	if err != nil {
		return nil, processing.TranslateError("waveform", err)
	}

	s.log.Debug("waveform generated",
		zap.String("session_id", sessionID),
		zap.String("filename", filename),
		zap.Int("resolution", data.Resolution))

	s.store(ctx, key, data)
	return data, nil
}

func (s *service) cached(ctx context.Context, key string) (*ffmpeg.WaveformData, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var data ffmpeg.WaveformData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.log.Warn("dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	return &data, true
}

func (s *service) store(ctx context.Context, key string, data *ffmpeg.WaveformData) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, 0); err != nil {
		s.log.Warn("failed to cache waveform", zap.String("key", key), zap.Error(err))
	}
}
