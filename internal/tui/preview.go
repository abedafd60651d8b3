// internal/tui/preview.go
//
// Preview is a read-only bubbletea view over the documents a run produced:
// the resolved schedule on top, the team registry as a scrollable table, and
// the details of the highlighted team. Operators use it to eyeball the output
// before publishing it to the scoreboard host.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/livesite-config/internal/schedule"
	"github.com/kingrea/livesite-config/internal/teams"
)

const defaultTableHeight = 12

// PreviewOption customizes Preview construction.
type PreviewOption func(*Preview)

// WithLogLines shows recent log lines beneath the table.
func WithLogLines(lines []string) PreviewOption {
	return func(p *Preview) {
		p.logLines = append([]string{}, lines...)
	}
}

// WithLocation selects the zone used to display schedule times.
func WithLocation(loc *time.Location) PreviewOption {
	return func(p *Preview) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// Preview is the bubbletea model.
type Preview struct {
	contest  *schedule.ContestConfig
	registry *teams.Registry
	table    table.Model
	logLines []string
	loc      *time.Location

	showDetail bool
	width      int
	height     int
}

// NewPreview builds the model. Either document may be nil.
func NewPreview(contest *schedule.ContestConfig, registry *teams.Registry, opts ...PreviewOption) *Preview {
	if registry == nil {
		registry = teams.NewRegistry()
	}
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Name", Width: 28},
		{Title: "University", Width: 28},
		{Title: "Country", Width: 8},
	}
	rows := make([]table.Row, 0, registry.Len())
	for _, team := range registry.Teams() {
		rows = append(rows, table.Row{team.ID, team.Name, team.University, team.Country})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
	)
	p := &Preview{
		contest:    contest,
		registry:   registry,
		table:      t,
		loc:        time.Local,
		showDetail: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Init is called once when the program starts.
func (p *Preview) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (p *Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.table.SetHeight(max(3, msg.Height-14))
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return p, tea.Quit
		case "enter", "d":
			p.showDetail = !p.showDetail
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

// SelectedTeam returns the highlighted team.
func (p *Preview) SelectedTeam() (teams.Team, bool) {
	row := p.table.SelectedRow()
	if len(row) == 0 {
		return teams.Team{}, false
	}
	return p.registry.Get(row[0])
}

// View renders the current state.
func (p *Preview) View() string {
	sections := []string{
		lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			Render("⬡ LIVESITE PREVIEW"),
		p.renderSchedule(),
		p.table.View(),
	}
	if p.showDetail {
		if detail := p.renderDetail(); detail != "" {
			sections = append(sections, detail)
		}
	}
	if logs := p.renderLogPanel(); logs != "" {
		sections = append(sections, logs)
	}
	sections = append(sections, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render("↑/↓ move · enter toggle details · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (p *Preview) renderSchedule() string {
	if p.contest == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("No contest schedule loaded.")
	}
	c := p.contest
	freeze := "none"
	if c.HasFreeze() {
		freeze = schedule.FormatTimestamp(c.Times.Freeze, p.loc)
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Render(c.Title),
		fmt.Sprintf("start  %s", schedule.FormatTimestamp(c.Times.Start, p.loc)),
		fmt.Sprintf("end    %s", schedule.FormatTimestamp(c.Times.End, p.loc)),
		fmt.Sprintf("freeze %s", freeze),
	}
	return boxed(strings.Join(lines, "\n"))
}

func (p *Preview) renderDetail() string {
	team, ok := p.SelectedTeam()
	if !ok {
		return ""
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(team.Name),
		"id         " + team.ID,
		"university " + team.University,
		"photo      " + team.Photo,
	}
	if team.Country != "" {
		lines = append(lines, "country    "+team.Country)
	}
	return boxed(strings.Join(lines, "\n"))
}

func (p *Preview) renderLogPanel() string {
	if len(p.logLines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(p.logLines, "\n"))
	return boxed(fmt.Sprintf("%s\n%s", head, body))
}

func boxed(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(content)
}
