package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"jobharvest/internal/harvest"
	"jobharvest/internal/skills"
)

var skillsTop int

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Show how often each skill appeared in the last scrape",
	Long:  "Reads the skill tallies cached by the last scrape. Skills that never appeared are left out.",
	RunE:  runSkills,
}

func init() {
	skillsCmd.Flags().IntVar(&skillsTop, "top", 20, "number of skills to show (0 = all)")
	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return err
	}

	h := harvest.New(cfg, "", logger)
	counts, ok := h.SkillSnapshot()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "no skill tallies cached; run `jobharvest scrape` first")
		return nil
	}
	renderSkillBars(cmd.OutOrStdout(), skills.Ranked(counts), skillsTop)
	return nil
}

var (
	skillNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	skillBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	skillCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const maxBarWidth = 40

func renderSkillBars(w io.Writer, ranked []skills.Count, top int) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "no skills matched in the last scrape")
		return
	}
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	nameWidth := 0
	for _, c := range ranked {
		nameWidth = max(nameWidth, lipgloss.Width(c.Skill))
	}
	highest := ranked[0].Count

	for _, c := range ranked {
		width := c.Count * maxBarWidth / highest
		if width == 0 {
			width = 1
		}
		fmt.Fprintf(w, "%s %s %s\n",
			skillNameStyle.Width(nameWidth).Render(c.Skill),
			skillBarStyle.Render(strings.Repeat("█", width)),
			skillCountStyle.Render(fmt.Sprint(c.Count)),
		)
	}
}
