package domjudge

import (
	"fmt"
	"strings"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warn(format string, args ...any) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, args...))
}

func TestDecodeTeamsAcceptsMixedIDShapes(t *testing.T) {
	data := []byte(`[
		{"id": 12, "name": "Plain Team", "group_ids": [4, "5"], "photo": null},
		{"id": "x-1", "display_name": "9: Shown", "name": "ignored", "hidden": null}
	]`)
	teams, err := DecodeTeams(data, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if teams[0].ID != "12" || teams[0].GroupIDs[0] != "4" || teams[0].GroupIDs[1] != "5" {
		t.Fatalf("unexpected ids %+v", teams[0])
	}
	if teams[1].RawName() != "9: Shown" {
		t.Fatalf("display name should win, got %q", teams[1].RawName())
	}
	if teams[0].RawName() != "Plain Team" {
		t.Fatalf("name fallback, got %q", teams[0].RawName())
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":    "  ",
		"syntax":   `{"name": `,
		"trailing": `{"name": "a"} {"name": "b"}`,
		"id type":  `{"id": {"nested": true}}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeContest([]byte(input)); err == nil {
				t.Fatalf("expected error for %q", input)
			}
		})
	}
}

func TestDecodeContestNullsBecomeEmpty(t *testing.T) {
	contest, err := DecodeContest([]byte(`{"name": null, "start_time": null, "scoreboard_freeze_duration": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if contest.Name != "" || contest.StartTime != "" || contest.ScoreboardFreezeDuration != "" {
		t.Fatalf("expected empty fields, got %+v", contest)
	}
}

func TestDecodeTeamsKeepsGoodRecordsBesideBadFields(t *testing.T) {
	logger := &recordingLogger{}
	data := []byte(`[
		{"id": "1", "name": "101: Good"},
		{"id": "2", "name": "Bad Photo", "photo": {"href": "/p.png"}},
		{"id": "3", "name": "Bad Groups", "group_ids": "g1", "hidden": "false"},
		{"id": "4", "name": "Good Too", "photo": [{"href": "/four.png", "width": "wide"}], "nationality": "TWN"}
	]`)
	teams, err := DecodeTeams(data, logger)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(teams) != 4 {
		t.Fatalf("expected every record kept, got %d", len(teams))
	}
	if teams[0].Name != "101: Good" {
		t.Fatalf("good record changed: %+v", teams[0])
	}
	if teams[1].Name != "Bad Photo" || teams[1].Photo != nil {
		t.Fatalf("malformed photo should fall back to nil: %+v", teams[1])
	}
	if teams[2].GroupIDs != nil || teams[2].Hidden {
		t.Fatalf("malformed group_ids and hidden should be zero: %+v", teams[2])
	}
	if teams[3].Photo != nil || teams[3].Nationality != "TWN" {
		t.Fatalf("only the bad field should be dropped: %+v", teams[3])
	}
	if len(logger.lines) != 3 {
		t.Fatalf("expected three warnings, got %v", logger.lines)
	}
	if !strings.Contains(logger.lines[1], `team record 2 (id "3"): ignoring malformed hidden, group_ids`) {
		t.Fatalf("warning should name the record and fields, got %q", logger.lines[1])
	}
}

func TestDecodeTeamsSkipsNonObjectRecords(t *testing.T) {
	logger := &recordingLogger{}
	teams, err := DecodeTeams([]byte(`[{"id": "1", "name": "Kept"}, 42, "text"]`), logger)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(teams) != 1 || teams[0].ID != "1" {
		t.Fatalf("unexpected teams %+v", teams)
	}
	if len(logger.lines) != 2 || !strings.HasPrefix(logger.lines[0], "WARN domjudge: skipping team record 1") {
		t.Fatalf("expected skip warnings, got %v", logger.lines)
	}
}

func TestDecodeListsRejectNonArrayInput(t *testing.T) {
	for _, input := range []string{"", `{"id": "1"}`, `[{"id": "1"}`, `[] []`} {
		if _, err := DecodeTeams([]byte(input), nil); err == nil {
			t.Fatalf("teams: expected error for %q", input)
		}
		if _, err := DecodeGroups([]byte(input), nil); err == nil {
			t.Fatalf("groups: expected error for %q", input)
		}
	}
}

func TestDecodeGroupsToleratesBadNames(t *testing.T) {
	groups, err := DecodeGroups([]byte(`[{"id": 3, "name": ["x"]}, {"id": "4", "name": "ABC University"}]`), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	names := GroupNames(groups)
	if names["3"] != "" || names["4"] != "ABC University" {
		t.Fatalf("unexpected lookup %v", names)
	}
}
