package cmd

import (
	"os"

	"github.com/killallgit/studio-api/pkg/config"
	"github.com/killallgit/studio-api/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configErr holds the result of loading configuration for commands that need it
var configErr error

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studio-api",
	Short: "WebAudio Studio API server",
	Long: `WebAudio Studio API - backend for a browser audio editor

Uploaded files live in per-session directories under a temporary root
owned by the running process. Editing operations run on a bounded
worker pool and write their results next to the upload.

Features:
  • Streaming uploads and downloads of session files
  • Trim with crossfade, split, 8-band equalizer, vocal extraction
  • Waveform peaks for the editor view
  • Job tracking, Prometheus metrics and Swagger docs`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Set up configuration loading with lazy initialization
	cobra.OnInitialize(loadConfig)

	// Add persistent flags for logging configuration
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides config")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration. Errors are reported by the commands
// that need it, so version and help keep working with a broken settings file.
func loadConfig() {
	configErr = config.Init()
}

// newLogger builds the process logger from config, letting the persistent
// flags override level and encoding
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	lc := logger.Config{
		Level:      cfg.Logging.Level,
		JSON:       cfg.Logging.JSON,
		File:       cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		lc.Level = level
	}
	if cmd.Flags().Changed("json-logs") {
		lc.JSON, _ = cmd.Flags().GetBool("json-logs")
	}

	return logger.Init(lc)
}
