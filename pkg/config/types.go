package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Storage      StorageConfig    `mapstructure:"storage"`
	Processing   ProcessingConfig `mapstructure:"processing"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Security     SecurityConfig   `mapstructure:"security"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Logging      LoggingConfig    `mapstructure:"logging"`
	Monitoring   MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// StorageConfig contains session store settings
type StorageConfig struct {
	// RootParent is the directory the per-process root is created in; empty means os.TempDir()
	RootParent        string        `mapstructure:"root_parent"`
	RootPrefix        string        `mapstructure:"root_prefix"`
	MaxUploadSize     int64         `mapstructure:"max_upload_size"`
	StaleRootAge      time.Duration `mapstructure:"stale_root_age"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

// ProcessingConfig contains audio processing settings
type ProcessingConfig struct {
	Workers            int           `mapstructure:"workers"`
	MaxQueueSize       int           `mapstructure:"max_queue_size"`
	JobTimeout         time.Duration `mapstructure:"job_timeout"`
	FFmpegPath         string        `mapstructure:"ffmpeg_path"`
	FFprobePath        string        `mapstructure:"ffprobe_path"`
	FFmpegTimeout      time.Duration `mapstructure:"ffmpeg_timeout"`
	OutputBitrate      string        `mapstructure:"output_bitrate"`
	SplitConcurrency   int           `mapstructure:"split_concurrency"`
	WaveformResolution int           `mapstructure:"waveform_resolution"`
	// WaveformCacheSize bounds the in-memory peak cache, in MiB
	WaveformCacheSize int64         `mapstructure:"waveform_cache_size"`
	WaveformCacheTTL  time.Duration `mapstructure:"waveform_cache_ttl"`
	// JobRetention is how long finished job records are kept
	JobRetention time.Duration `mapstructure:"job_retention"`
}

// DatabaseConfig contains bookkeeping database settings
type DatabaseConfig struct {
	// Path of the sqlite database; ":memory:" keeps records for the process lifetime only
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// SecurityConfig contains CORS settings
type SecurityConfig struct {
	EnableCORS           bool     `mapstructure:"enable_cors"`
	CORSOrigins          []string `mapstructure:"cors_origins"`
	CORSMethods          []string `mapstructure:"cors_methods"`
	CORSHeaders          []string `mapstructure:"cors_headers"`
	CORSAllowCredentials bool     `mapstructure:"cors_allow_credentials"`
}

// RateLimitConfig contains rate limiting settings for processing endpoints
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	RPS     int  `mapstructure:"rps"`
	Burst   int  `mapstructure:"burst"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsPath    string `mapstructure:"metrics_path"`
}
