// Package report renders short terminal summaries of generated documents.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/livesite-config/internal/schedule"
	"github.com/kingrea/livesite-config/internal/teams"
)

var (
	headStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Contest summarizes a resolved schedule. loc selects the display zone.
func Contest(cfg schedule.ContestConfig, path string, loc *time.Location) string {
	rows := []string{
		headStyle.Render("CONTEST · " + cfg.Title),
		row("start", schedule.FormatTimestamp(cfg.Times.Start, loc)),
		row("end", schedule.FormatTimestamp(cfg.Times.End, loc)),
	}
	if cfg.HasFreeze() {
		rows = append(rows, row("freeze", fmt.Sprintf("%s (%s before end)",
			schedule.FormatTimestamp(cfg.Times.Freeze, loc),
			time.Duration(cfg.Times.End-cfg.Times.Freeze)*time.Second)))
	} else {
		rows = append(rows, row("freeze", "none"))
	}
	if cfg.Times.Freeze < cfg.Times.Start {
		rows = append(rows, warnStyle.Render("freeze is before the contest starts"))
	}
	if path != "" {
		rows = append(rows, row("written", path))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

// Teams summarizes a registry, listing at most limit teams.
func Teams(reg *teams.Registry, path string, limit int) string {
	rows := []string{
		headStyle.Render(fmt.Sprintf("TEAMS · %d", reg.Len())),
	}
	for i, team := range reg.Teams() {
		if limit > 0 && i >= limit {
			rows = append(rows, row("", fmt.Sprintf("… %d more", reg.Len()-limit)))
			break
		}
		line := team.Name
		if team.University != "" {
			line += " · " + team.University
		}
		rows = append(rows, row(team.ID, line))
	}
	if path != "" {
		rows = append(rows, row("written", path))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + value
}
