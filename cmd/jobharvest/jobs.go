package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"jobharvest/internal/domain"
	"jobharvest/internal/store"
)

var (
	jobsWithCoords bool
	jobsLimit      int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List stored jobs",
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().BoolVar(&jobsWithCoords, "with-coordinates", false, "only jobs that have been geocoded")
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 0, "maximum rows to print (0 = all)")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sink, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	defer sink.Close()

	rows, err := sink.ListJobs(ctx, store.ListJobsOpts{WithCoordinates: jobsWithCoords, Limit: jobsLimit})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no jobs stored")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderJobs(rows))
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

func renderJobs(rows []domain.NormalizedJob) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("TITLE", "COMPANY", "CITY", "STATE", "LAT", "LNG", "SKILLS")

	for _, j := range rows {
		t.Row(j.Title, j.Company, j.City, j.State, coord(j.Latitude), coord(j.Longitude), strings.Join(j.Skills, ", "))
	}
	return t.String()
}

func coord(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', 4, 64)
}
