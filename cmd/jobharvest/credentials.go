package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobharvest/internal/secrets"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the geocoding username in the OS keychain",
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set <username>",
	Short: "Store the GeoNames username in the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)
		cfg, err := loadConfig(cfgPath, logger)
		if err != nil {
			return err
		}
		if err := secrets.SetGeocodeUsername(cfg.Geocode.KeyringAccount, args[0]); err != nil {
			return fmt.Errorf("store username: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored under %s/%s\n", secrets.KeyringService, cfg.Geocode.KeyringAccount)
		return nil
	},
}

var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the GeoNames username from the keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)
		cfg, err := loadConfig(cfgPath, logger)
		if err != nil {
			return err
		}
		return secrets.DeleteGeocodeUsername(cfg.Geocode.KeyringAccount)
	},
}

func init() {
	credentialsCmd.AddCommand(credentialsSetCmd, credentialsDeleteCmd)
	rootCmd.AddCommand(credentialsCmd)
}
