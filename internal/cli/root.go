// Package cli provides the flamegrid command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flamegrid/flamegrid/internal/config"
	"github.com/flamegrid/flamegrid/internal/logging"
)

var (
	flagConfigFile string
	flagLogLevel   string
	flagLogFormat  string
	flagLogFile    string

	loadedConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "flamegrid",
	Short: "Interactive flame-chart viewer for execution traces",
	Long: `flamegrid renders nested-event execution traces as an interactive
flame chart. It indexes the trace once, then answers pan/zoom queries at
frame rate by drawing large events individually and summarizing sub-pixel
events into density buckets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initRuntime()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format (json, console)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "log file path")
}

// initRuntime loads configuration and initializes logging; flags override
// file/env settings.
func initRuntime() error {
	loader := config.NewLoader()
	if flagConfigFile != "" {
		loader.SetConfigFile(flagConfigFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}
	if flagLogFile != "" {
		cfg.Logging.File = flagLogFile
	}

	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logCfg.Output = f
		logCfg.Format = "json"
	}
	logging.Init(logCfg)

	loadedConfig = cfg
	return nil
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return loadedConfig
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}
