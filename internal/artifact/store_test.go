package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/livesite-config/internal/schedule"
	"github.com/kingrea/livesite-config/internal/teams"
)

func sampleContest() schedule.ContestConfig {
	return schedule.ContestConfig{
		FrontPageHTML: "<h1 class=\"page-header\">LiveSite</h1>\n\n<p>Week 8 scoreboard</p>\n",
		Times:         schedule.Times{Start: 1764912600, End: 1764930600, Freeze: 1764927000, Scale: 1},
		Title:         "週八練習賽",
	}
}

func TestWriteJSONContest(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	path, err := store.Write("contest", sampleContest())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "contest.json" {
		t.Fatalf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`"frontPageHtml": "<h1 class=\"page-header\">LiveSite</h1>\n\n<p>Week 8 scoreboard</p>\n"`,
		`"problemLink": null`,
		"\n        \"freeze\": 1764927000,",
		`"title": "週八練習賽"`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestWriteYAMLUsesLiteralBlocks(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, WithFormat(FormatYAML))
	path, err := store.Write("contest", sampleContest())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "contest.yaml" {
		t.Fatalf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "frontPageHtml: |") {
		t.Fatalf("expected literal block for front page html:\n%s", text)
	}
	if !strings.Contains(text, "  freeze: 1764927000") {
		t.Fatalf("expected nested times block:\n%s", text)
	}
}

func TestWriteTeamsRegistry(t *testing.T) {
	reg := teams.NewRegistry()
	reg.Put(teams.Team{ID: "101", Members: []string{}, Name: "Team Rocket", Photo: "/x.png"})
	store := NewStore(t.TempDir())
	path, err := store.Write("teams", reg)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "    \"101\": {") {
		t.Fatalf("expected indented registry:\n%s", data)
	}
}

func TestFailedWriteKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	path, err := store.Write("contest", sampleContest())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	before, _ := os.ReadFile(path)
	if _, err := store.Write("contest", map[string]any{"bad": make(chan int)}); err == nil {
		t.Fatalf("expected encode failure")
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Fatalf("previous output was modified")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, " yaml ": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Fatalf("expected error for toml")
	}
}
