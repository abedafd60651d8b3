package report

import (
	"strings"
	"testing"
	"time"

	"github.com/kingrea/livesite-config/internal/schedule"
	"github.com/kingrea/livesite-config/internal/teams"
)

func TestContestSummaryShowsFreeze(t *testing.T) {
	cfg := schedule.ContestConfig{
		Title: "Week 8",
		Times: schedule.Times{Start: 1764912600, End: 1764930600, Freeze: 1764927000, Scale: 1},
	}
	out := Contest(cfg, "/tmp/contest.json", time.UTC)
	for _, want := range []string{"Week 8", "2025-12-05T05:30:00Z", "1h0m0s before end", "/tmp/contest.json"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestContestSummaryWithoutFreeze(t *testing.T) {
	cfg := schedule.ContestConfig{Title: "Open", Times: schedule.Times{Start: 0, End: 100, Freeze: 100, Scale: 1}}
	if out := Contest(cfg, "", time.UTC); !strings.Contains(out, "none") {
		t.Fatalf("expected no-freeze marker:\n%s", out)
	}
}

func TestTeamsSummaryTruncates(t *testing.T) {
	reg := teams.NewRegistry()
	reg.Put(teams.Team{ID: "1", Name: "Alpha", University: "ABC University"})
	reg.Put(teams.Team{ID: "2", Name: "Beta"})
	reg.Put(teams.Team{ID: "3", Name: "Gamma"})
	out := Teams(reg, "", 2)
	if !strings.Contains(out, "TEAMS · 3") || !strings.Contains(out, "Alpha · ABC University") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if strings.Contains(out, "Gamma") || !strings.Contains(out, "1 more") {
		t.Fatalf("expected truncation:\n%s", out)
	}
}
