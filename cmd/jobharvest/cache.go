package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobharvest/internal/harvest"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or prune the response caches",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print entry counts per cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)
		cfg, err := loadConfig(cfgPath, logger)
		if err != nil {
			return err
		}
		for _, s := range harvest.New(cfg, "", logger).CacheStats() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %6d  %s\n", s.Name, s.Entries, s.Path)
		}
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired entries from every cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)
		cfg, err := loadConfig(cfgPath, logger)
		if err != nil {
			return err
		}
		pruned, err := harvest.New(cfg, "", logger).PruneCaches()
		if err != nil {
			return err
		}
		for _, name := range []string{"listing", "detail", "geo", "skills"} {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s pruned %d\n", name, pruned[name])
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
