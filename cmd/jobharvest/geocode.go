package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobharvest/internal/harvest"
	"jobharvest/internal/secrets"
	"jobharvest/internal/store"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Fill in coordinates for stored jobs that lack them",
	RunE:  runGeocode,
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}

func runGeocode(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return err
	}

	user, _ := secrets.ResolveGeocodeUsername(cfg)
	if user == "" {
		return errors.New("no geocoding username configured; set GEONAMES_USERNAME or run `jobharvest credentials set`")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	defer sink.Close()

	h := harvest.New(cfg, user, logger)
	filled, unresolved, err := store.Backfill(ctx, sink, h.Geocoder(), logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "filled %d, unresolved %d\n", filled, unresolved)
	return nil
}
