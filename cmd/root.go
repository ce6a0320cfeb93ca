package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dt-pm-tools/readme-publish/internal/config"
	"github.com/dt-pm-tools/readme-publish/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	appConfig config.Config
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "readme-publish",
	Short: "Publish a repository README to Dev.to and Hashnode",
	Long: `A CLI tool for publishing a repository's README as a blog post. Relative
images and file links are rewritten to raw GitHub URLs, and the post is
updated in place on later runs instead of being duplicated.

Each run prints exactly one JSON line on stdout; diagnostics go to stderr.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.readme-publish.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config, else info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: pretty, json, auto (default auto)")
}

// loadConfig loads configuration without validating it. Commands that talk
// to a platform validate the section they need afterwards.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg
	return nil
}

// newLogger builds the stderr logger for cmd, with flags taking precedence
// over the config file.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := appConfig.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	format := appConfig.Log.Format
	if logFormat != "" {
		format = logFormat
	}
	return logger.New(logger.Config{
		Writer: cmd.ErrOrStderr(),
		Format: format,
		Level:  logger.ParseLevel(level),
	}).Logger
}
