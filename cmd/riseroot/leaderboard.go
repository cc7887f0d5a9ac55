package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Awasthi-Ram/Root-fix-app/internal/domain"
	"github.com/Awasthi-Ram/Root-fix-app/internal/format"
	"github.com/Awasthi-Ram/Root-fix-app/internal/impact"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	rankStyle   = lipgloss.NewStyle().Width(6)
	nameStyle   = lipgloss.NewStyle().Width(24)
	totalStyle  = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
	mutedStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9E9E9E"))
)

func newLeaderboardCmd(e *env) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the contributor ranking for the seeded catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalogue(e.cfg)
			if err != nil {
				return err
			}
			ranked := impact.RankContributors(cat.Donations, category, cat.Categories)
			renderLeaderboard(cmd.OutOrStdout(), category, ranked)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", domain.OverallFilter, "category name or Overall")
	return cmd
}

func renderLeaderboard(w io.Writer, category string, ranked []impact.Contributor) {
	if strings.TrimSpace(category) == "" {
		category = domain.OverallFilter
	}
	lines := []string{titleStyle.Render("Top Contributors · " + category)}
	if len(ranked) == 0 {
		lines = append(lines, mutedStyle.Render(impact.EmptyRankingMessage))
	} else {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			headerStyle.Render(rankStyle.Render("Rank")),
			headerStyle.Render(nameStyle.Render("Supporter")),
			headerStyle.Render(totalStyle.Render("Total")),
		))
		for i, c := range ranked {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
				rankStyle.Render("#"+strconv.Itoa(i+1)),
				nameStyle.Render(c.DisplayIdentity),
				totalStyle.Render(format.Total(c.Total)),
			))
		}
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
