package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	filledStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
)

const maxBarWidth = 30

func renderCard(title, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(title),
		cardValueStyle.Render(value),
	))
}

func renderSummary(s *domain.StatsSummary) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Current streak", fmt.Sprintf("%d days", s.CurrentStreak)),
		renderCard("Longest streak", fmt.Sprintf("%d days", s.LongestStreak)),
		renderCard("Entries", fmt.Sprintf("%d", s.TotalEntries)),
	)

	parts := []string{cards, "", headerStyle.Render("Habits")}
	if len(s.Habits) == 0 {
		parts = append(parts, mutedStyle.Render("No entry types yet. Add one with kanso type add <title>."))
	}
	for _, h := range s.Habits {
		parts = append(parts, fmt.Sprintf("%2d. %-24s %-8s %4d entries %6s pts  best %d",
			h.Rank, h.Title, h.Routine, h.TotalCount, formatPoints(h.TotalPoints), h.MaxStreak))
	}

	parts = append(parts, "", headerStyle.Render(fmt.Sprintf("Activity by %s", s.Granularity)))
	parts = append(parts, renderChart(s.Chart)...)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderChart draws one horizontal bar per bucket, scaled to the busiest one.
func renderChart(chart []domain.ChartBucket) []string {
	peak := 0
	totals := make([]int, len(chart))
	for i, b := range chart {
		for _, n := range b.Counts {
			totals[i] += n
		}
		if totals[i] > peak {
			peak = totals[i]
		}
	}

	lines := make([]string, 0, len(chart))
	for i, b := range chart {
		width := 0
		if peak > 0 {
			width = totals[i] * maxBarWidth / peak
		}
		if totals[i] > 0 && width == 0 {
			width = 1
		}
		bar := filledStyle.Render(strings.Repeat("█", width))
		lines = append(lines, fmt.Sprintf("%-10s %s %d", b.Label, bar, totals[i]))
	}
	return lines
}

func renderGrid(g *domain.HabitGrid) string {
	cells := make([]string, 0, len(g.Periods))
	done := 0
	for _, p := range g.Periods {
		if p.Count > 0 {
			done++
			cells = append(cells, filledStyle.Render("■"))
			continue
		}
		cells = append(cells, emptyStyle.Render("□"))
	}

	header := headerStyle.Render(g.Title) + mutedStyle.Render(fmt.Sprintf(" (%s)", g.Routine))
	line := strings.Join(cells, " ")
	footer := fmt.Sprintf("%d of %d periods done, best streak %d", done, len(g.Periods), g.MaxStreak)
	if len(g.Periods) > 0 {
		footer = mutedStyle.Render(fmt.Sprintf("%s to %s", g.Periods[0].Start, g.Periods[len(g.Periods)-1].End)) + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, line, footer)
}

func renderTypes(types []*domain.EntryType) string {
	if len(types) == 0 {
		return mutedStyle.Render("No entry types yet.")
	}
	lines := []string{headerStyle.Render(fmt.Sprintf("%-24s %-24s %-8s %s", "ID", "TITLE", "ROUTINE", "POINTS"))}
	for _, t := range types {
		lines = append(lines, fmt.Sprintf("%-24s %-24s %-8s %s (step %s)",
			t.ID, t.Title, t.Routine, formatPoints(t.DefaultPoints), formatPoints(t.PointStep)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderBackups(backups []domain.Backup) string {
	if len(backups) == 0 {
		return mutedStyle.Render("No remote backups.")
	}
	lines := []string{headerStyle.Render(fmt.Sprintf("%-36s %-40s %s", "ID", "FILENAME", "UPDATED"))}
	for _, b := range backups {
		lines = append(lines, fmt.Sprintf("%-36s %-40s %s", b.ID, b.Filename, b.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatPoints(p domain.Points) string {
	return fmt.Sprintf("%g", float64(p))
}
