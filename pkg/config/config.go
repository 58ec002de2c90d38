package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// EnvPrefix is the prefix for environment variable overrides (STUDIO_SERVER_PORT, ...)
const EnvPrefix = "STUDIO"

// ConfigPath is the fixed location of the optional settings file
var ConfigPath = "./config/settings.yaml"

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		setDefaults()

		viper.SetEnvPrefix(EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean(ConfigPath)
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// A missing file means defaults and env vars only
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// Reset clears viper state so Init can run again (tests only)
func Reset() {
	viper.Reset()
	once = sync.Once{}
	initErr = nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetInt64("storage.max_upload_size") <= 0 {
		return fmt.Errorf("invalid storage.max_upload_size: %d", viper.GetInt64("storage.max_upload_size"))
	}

	prefix := viper.GetString("storage.root_prefix")
	if prefix == "" || strings.ContainsAny(prefix, `/\`) {
		return fmt.Errorf("invalid storage.root_prefix: %q", prefix)
	}

	// Auto-correct invalid worker count
	if viper.GetInt("processing.workers") <= 0 {
		viper.Set("processing.workers", 2)
	}

	// Auto-correct invalid queue size
	if viper.GetInt("processing.max_queue_size") <= 0 {
		viper.Set("processing.max_queue_size", 100)
	}

	if viper.GetInt("processing.split_concurrency") <= 0 {
		viper.Set("processing.split_concurrency", 2)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("invalid storage.max_upload_size: %d", c.Storage.MaxUploadSize)
	}

	if c.Storage.RootPrefix == "" || strings.ContainsAny(c.Storage.RootPrefix, `/\`) {
		return fmt.Errorf("invalid storage.root_prefix: %q", c.Storage.RootPrefix)
	}

	if c.Processing.Workers <= 0 {
		c.Processing.Workers = 2
	}

	if c.Processing.MaxQueueSize <= 0 {
		c.Processing.MaxQueueSize = 100
	}

	if c.Processing.SplitConcurrency <= 0 {
		c.Processing.SplitConcurrency = 2
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 5*time.Minute)
	viper.SetDefault("server.write_timeout", 10*time.Minute)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 15*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Storage defaults
	viper.SetDefault("storage.root_parent", "")
	viper.SetDefault("storage.root_prefix", "audio-studio-")
	viper.SetDefault("storage.max_upload_size", 100*1024*1024)
	viper.SetDefault("storage.stale_root_age", 24*time.Hour)
	viper.SetDefault("storage.heartbeat_interval", 1*time.Hour)

	// Processing defaults
	viper.SetDefault("processing.workers", 2)
	viper.SetDefault("processing.max_queue_size", 100)
	viper.SetDefault("processing.job_timeout", 10*time.Minute)
	viper.SetDefault("processing.ffmpeg_path", "ffmpeg")
	viper.SetDefault("processing.ffprobe_path", "ffprobe")
	viper.SetDefault("processing.ffmpeg_timeout", 5*time.Minute)
	viper.SetDefault("processing.output_bitrate", "192k")
	viper.SetDefault("processing.split_concurrency", 2)
	viper.SetDefault("processing.waveform_resolution", 1000)
	viper.SetDefault("processing.waveform_cache_size", 32)
	viper.SetDefault("processing.waveform_cache_ttl", 30*time.Minute)
	viper.SetDefault("processing.job_retention", 24*time.Hour)

	// Database defaults
	viper.SetDefault("database.path", ":memory:")
	viper.SetDefault("database.verbose", false)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"http://localhost:3000"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization", "Accept"})
	viper.SetDefault("security.cors_allow_credentials", true)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.rps", 5)
	viper.SetDefault("rate_limiting.burst", 10)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.json", false)
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 10)
	viper.SetDefault("logging.max_age", 30)
	viper.SetDefault("logging.compress", true)

	// Monitoring defaults
	viper.SetDefault("monitoring.metrics_enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
}
