package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"jobharvest/internal/config"
	"jobharvest/internal/skills"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yml and skills.csv",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config (the old one is kept as .bak)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := resolveConfigPath(cfgPath)

	created, err := config.EnsureUserConfig(path, initForce)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if created {
		fmt.Fprintf(out, "wrote %s\n", path)
	} else {
		fmt.Fprintf(out, "%s already exists (use --force to replace it)\n", path)
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Skills.File); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(cfg.Skills.File, skills.DefaultCSV(), 0o644); err != nil {
			return fmt.Errorf("write skills list: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", cfg.Skills.File)
	}
	return nil
}
