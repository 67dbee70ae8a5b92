package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/awesome/middlewares"
	"github.com/dmitrymomot/awesome/pkg/config"
	"github.com/dmitrymomot/awesome/pkg/logger"
)

// configPath is the --config flag value.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "awesome",
	Short: "Awesome - a small blog server",
	Long: `Awesome serves a blog with users, comments and an admin area.
Settings come from built-in defaults, an optional YAML file given with
--config, and environment variables, in that order.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"YAML file overriding the default configuration")
}

// setup loads the configuration and builds the process logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if cfg.Debug && cfg.Log.Level == "info" {
		cfg.Log.Level = "debug"
	}
	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), middlewares.UserIDExtractor())
	return cfg, log.With("service", "awesome"), nil
}
