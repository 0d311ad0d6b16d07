package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobharvest/internal/harvest"
	"jobharvest/internal/secrets"
	"jobharvest/internal/store"
)

var (
	dryRun    bool
	maxOffset int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the configured search and store new postings",
	RunE:  runScrape,
}

func init() {
	addScrapeFlags(scrapeCmd)
	rootCmd.AddCommand(scrapeCmd)
}

func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "scrape and enrich but do not write to the store")
	cmd.Flags().IntVar(&maxOffset, "max-offset", -1, "override listing.max_offset for this run")
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return err
	}
	if maxOffset >= 0 {
		cfg.Listing.MaxOffset = maxOffset
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the store is opened first so an unreachable database ends the run
	// before any page is fetched
	var sink store.Sink
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be stored")
		sink = store.NewNopSink()
	} else {
		sink, err = store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("storage unavailable: %w", err)
		}
	}
	defer sink.Close()

	user, source := secrets.ResolveGeocodeUsername(cfg)
	if user == "" {
		logger.Warn("no geocoding username; coordinates will be left empty")
	} else {
		logger.Debug("geocoding username resolved", "source", source)
	}

	h := harvest.New(cfg, user, logger)
	rep, err := h.Run(ctx, sink)
	if err != nil {
		return err
	}

	logger.Info("harvest complete",
		"run_id", rep.Run.RunID,
		"pages", rep.Run.Pages,
		"pages_failed", rep.Run.PagesFailed,
		"jobs", len(rep.Run.Jobs),
		"added", rep.Added,
		"dry_run", dryRun,
	)
	return nil
}
