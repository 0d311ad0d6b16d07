package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobharvest/internal/config"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobharvest",
	Short: "Harvest job postings and the skills they ask for",
	Long: "jobharvest walks a job search's result pages, enriches each unique posting with its detail page, " +
		"matched skills and coordinates, and stores the result in SQLite or Postgres.",
	// no subcommand means scrape
	RunE:          runScrape,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBHARVEST_CONFIG env var or ./config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addScrapeFlags(rootCmd)
}

func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("JOBHARVEST_CONFIG"); env != "" {
		return env
	}
	return "config.yml"
}

// loadConfig reads .env files, then the config file. A missing config file
// falls back to the built-in defaults.
func loadConfig(path string, logger *slog.Logger) (config.Config, error) {
	path = resolveConfigPath(path)

	if err := config.LoadEnv(".env", filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return config.Config{}, err
	}

	cfg, warnings, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("config file not found, using defaults", "path", path)
		cfg, warnings, err = config.Parse(nil)
	}
	if err != nil {
		return config.Config{}, err
	}
	for _, w := range warnings {
		logger.Warn("config", "warning", w)
	}
	logger.Debug("config loaded", "path", path, "driver", cfg.Store.Driver, "max_offset", cfg.Listing.MaxOffset)
	return cfg, nil
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
