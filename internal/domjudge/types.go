package domjudge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a judge identifier. Newer API versions send strings, older ones send
// numbers; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("domjudge: id must be a string or number, got %s", trimmed)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier with surrounding whitespace removed.
func (id ID) String() string {
	return strings.TrimSpace(string(id))
}

// ContestDescriptor is the subset of the judge's contest object used to
// build the scoreboard schedule.
type ContestDescriptor struct {
	ID                       ID     `json:"id"`
	Name                     string `json:"name"`
	FormalName               string `json:"formal_name"`
	StartTime                string `json:"start_time"`
	EndTime                  string `json:"end_time"`
	Duration                 string `json:"duration"`
	ScoreboardFreezeDuration string `json:"scoreboard_freeze_duration"`
}

// GroupDescriptor is a team category; its name doubles as an affiliation
// when a team carries none of its own.
type GroupDescriptor struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Photo is one entry of a team's photo list.
type Photo struct {
	Href   string `json:"href"`
	Mime   string `json:"mime,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// TeamDescriptor is one team as exported by the judge.
type TeamDescriptor struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Hidden      bool    `json:"hidden"`
	Photo       []Photo `json:"photo"`
	Affiliation string  `json:"affiliation"`
	GroupIDs    []ID    `json:"group_ids"`
	Nationality string  `json:"nationality"`
}

// RawName returns the display name when set, otherwise the team name.
func (t TeamDescriptor) RawName() string {
	if strings.TrimSpace(t.DisplayName) != "" {
		return t.DisplayName
	}
	return t.Name
}

// DecodeContest parses a single contest object.
func DecodeContest(data []byte) (ContestDescriptor, error) {
	var contest ContestDescriptor
	if err := decodeStrict(data, &contest); err != nil {
		return ContestDescriptor{}, fmt.Errorf("domjudge: decode contest: %w", err)
	}
	return contest, nil
}

// DecodeTeams parses a team list. Only input that is not a JSON array is an
// error. A record that is not an object is skipped, and a field with the wrong
// type keeps its zero value; both are reported to logger, which may be nil.
func DecodeTeams(data []byte, logger Logger) ([]TeamDescriptor, error) {
	records, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("domjudge: decode teams: %w", err)
	}
	logger = orNop(logger)
	teams := make([]TeamDescriptor, 0, len(records))
	for i, raw := range records {
		var team TeamDescriptor
		bad, err := decodeRecord(raw, []field{
			{"id", into(&team.ID)},
			{"name", into(&team.Name)},
			{"display_name", into(&team.DisplayName)},
			{"hidden", into(&team.Hidden)},
			{"photo", into(&team.Photo)},
			{"affiliation", into(&team.Affiliation)},
			{"group_ids", into(&team.GroupIDs)},
			{"nationality", into(&team.Nationality)},
		})
		if err != nil {
			logger.Warn("domjudge: skipping team record %d: %v", i, err)
			continue
		}
		if len(bad) > 0 {
			logger.Warn("domjudge: team record %d (id %q): ignoring malformed %s", i, team.ID.String(), strings.Join(bad, ", "))
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// DecodeGroups parses a group list with the same per-record tolerance as
// DecodeTeams.
func DecodeGroups(data []byte, logger Logger) ([]GroupDescriptor, error) {
	records, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("domjudge: decode groups: %w", err)
	}
	logger = orNop(logger)
	groups := make([]GroupDescriptor, 0, len(records))
	for i, raw := range records {
		var group GroupDescriptor
		bad, err := decodeRecord(raw, []field{
			{"id", into(&group.ID)},
			{"name", into(&group.Name)},
		})
		if err != nil {
			logger.Warn("domjudge: skipping group record %d: %v", i, err)
			continue
		}
		if len(bad) > 0 {
			logger.Warn("domjudge: group record %d (id %q): ignoring malformed %s", i, group.ID.String(), strings.Join(bad, ", "))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// GroupNames builds the group id → name lookup. Later duplicates win.
func GroupNames(groups []GroupDescriptor) map[string]string {
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID.String()] = g.Name
	}
	return names
}

// decodeStrict rejects empty input and trailing data after the first value.
// Unknown fields are ignored because the judge adds fields between versions.
func decodeStrict(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("empty input")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

func decodeList(data []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := decodeStrict(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// field decodes one member of a record into its destination.
type field struct {
	key    string
	decode func(json.RawMessage) error
}

// into decodes into dst only when the whole value is valid, so a failed
// field is left at its zero value.
func into[T any](dst *T) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// decodeRecord decodes the listed fields of one object independently and
// returns the keys that failed. Unknown keys are ignored.
func decodeRecord(raw json.RawMessage, fields []field) ([]string, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("record is not an object: %s", snippet(raw))
	}
	var bad []string
	for _, f := range fields {
		value, ok := members[f.key]
		if !ok {
			continue
		}
		if err := f.decode(value); err != nil {
			bad = append(bad, f.key)
		}
	}
	return bad, nil
}

func orNop(logger Logger) Logger {
	if logger == nil {
		return nopLogger{}
	}
	return logger
}
